// Package requeuer implements the operator-triggered backfill described in
// §4.4: find undownloaded granules for a given ingestion date and, unless
// dry_run, re-admit them to the download queue.
package requeuer

import (
	"context"
	"fmt"
	"time"

	"github.com/kraklabs/sentinel2ingest/internal/models"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
)

// Result is the full set of granules the run touched, returned regardless
// of dry-run mode (§4.4).
type Result struct {
	DryRun   bool
	Date     string
	Granules []models.AffectedGranule
}

// Run finds every granule with ingestiondate = date and downloaded=false. If
// dryRun is false, it republishes each to the to-download queue without
// resetting download_retries — operators wanting a retry past the cap must
// manually lower the counter, per the source's explicit design.
//
// dryRun has no default: callers must decide explicitly, to prevent
// accidental mass requeues.
func Run(ctx context.Context, repo *repository.Repository, q queue.Queue, dryRun bool, date string) (Result, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Result{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	granules, err := repo.UndownloadedByIngestionDate(ctx, parsed)
	if err != nil {
		return Result{}, fmt.Errorf("query undownloaded granules for %s: %w", date, err)
	}

	result := Result{DryRun: dryRun, Date: date}
	for _, g := range granules {
		result.Granules = append(result.Granules, models.AffectedGranule{ID: g.ID, Filename: g.Filename})

		if !dryRun {
			if err := q.Publish(ctx, queue.Message{ID: g.ID, DownloadURL: g.DownloadURL}); err != nil {
				return result, fmt.Errorf("publish granule %s: %w", g.ID, err)
			}
		}
	}

	return result, nil
}
