package repository

import "testing"

func TestCursorKey(t *testing.T) {
	t.Parallel()

	got := CursorKey("2025-01-27", "S2B")
	want := "fetch_cursor:2025-01-27:S2B"
	if got != want {
		t.Fatalf("CursorKey=%q want %q", got, want)
	}
}
