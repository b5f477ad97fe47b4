package dategen

import (
	"testing"
	"time"
)

func TestGenerateDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 29, 15, 0, 0, 0, time.UTC)
	items := Generate(now, 0, nil)

	if len(items) != 15 {
		t.Fatalf("len(items)=%d want 15", len(items))
	}

	wantDates := []string{"2025-01-28", "2025-01-27", "2025-01-26", "2025-01-25", "2025-01-24"}
	for i, platform := range DefaultPlatforms {
		for j, date := range wantDates {
			item := items[i*len(wantDates)+j]
			if item.Platform != platform || item.Date != date {
				t.Fatalf("items[%d]=%+v want {%s %s}", i*len(wantDates)+j, item, date, platform)
			}
		}
	}
}

func TestGenerateCustomInputs(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	items := Generate(now, 2, []string{"S2A"})

	want := []WorkItem{
		{Date: "2025-02-28", Platform: "S2A"},
		{Date: "2025-02-27", Platform: "S2A"},
	}
	if len(items) != len(want) {
		t.Fatalf("len(items)=%d want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("items[%d]=%+v want %+v", i, items[i], want[i])
		}
	}
}

func TestGenerateZeroTimeUsesNow(t *testing.T) {
	t.Parallel()

	items := Generate(time.Time{}, 1, []string{"S2A"})
	if len(items) != 1 {
		t.Fatalf("len(items)=%d want 1", len(items))
	}
	wantDate := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	if items[0].Date != wantDate {
		t.Fatalf("items[0].Date=%s want %s", items[0].Date, wantDate)
	}
}
