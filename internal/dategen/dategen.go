// Package dategen produces the ordered list of (date, platform) work items
// that drives the discovery stage. Pure function, no I/O.
package dategen

import "time"

// DefaultPlatforms is used when Generate is called with an empty platform
// list, per §4.1.
var DefaultPlatforms = []string{"S2A", "S2B", "S2C"}

// DefaultLookbackDays is used when lookbackDays is zero.
const DefaultLookbackDays = 5

// WorkItem is one (date, platform) pair for the link fetcher.
type WorkItem struct {
	Date     string
	Platform string
}

// Generate returns WorkItems covering {now-1, ..., now-lookbackDays} crossed
// with platforms, most-recent-first within each platform. now, lookbackDays,
// and platforms are all optional: a zero time.Time means "today, UTC", a
// zero lookbackDays means DefaultLookbackDays, and a nil/empty platforms
// means DefaultPlatforms.
func Generate(now time.Time, lookbackDays int, platforms []string) []WorkItem {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if len(platforms) == 0 {
		platforms = DefaultPlatforms
	}

	items := make([]WorkItem, 0, lookbackDays*len(platforms))
	for _, platform := range platforms {
		for dayOffset := 1; dayOffset <= lookbackDays; dayOffset++ {
			date := now.AddDate(0, 0, -dayOffset)
			items = append(items, WorkItem{
				Date:     date.Format("2006-01-02"),
				Platform: platform,
			})
		}
	}
	return items
}
