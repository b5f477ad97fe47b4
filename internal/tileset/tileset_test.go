package tileset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndAllowed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tiles.txt")
	content := "31UFU\n# comment\n\n31uev\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	allow, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if allow.Len() != 2 {
		t.Fatalf("Len()=%d want 2", allow.Len())
	}

	cases := []struct {
		tile string
		want bool
	}{
		{"31UFU", true},
		{"31ufu", true},
		{"31UEV", true},
		{"32ABC", false},
	}
	for _, tc := range cases {
		if got := allow.Allowed(tc.tile); got != tc.want {
			t.Errorf("Allowed(%q)=%v want %v", tc.tile, got, tc.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
