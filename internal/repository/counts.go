package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kraklabs/sentinel2ingest/internal/models"
)

// GetOrCreateGranuleCount loads the (date, platform) progress row, creating
// a zeroed one if absent.
func (r *Repository) GetOrCreateGranuleCount(ctx context.Context, date time.Time, platform string) (*models.GranuleCount, error) {
	var c models.GranuleCount
	err := r.db.QueryRow(ctx, `
		INSERT INTO granule_count (date, platform, available_links, fetched_links, last_fetched_at)
		VALUES ($1, $2, 0, 0, NOW())
		ON CONFLICT (date, platform) DO UPDATE SET date = EXCLUDED.date
		RETURNING date, platform, available_links, fetched_links, last_fetched_at`,
		date, platform,
	).Scan(&c.Date, &c.Platform, &c.AvailableLinks, &c.FetchedLinks, &c.LastFetchedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create granule_count for %s/%s: %w", date.Format("2006-01-02"), platform, err)
	}
	return &c, nil
}

// SetAvailableLinks updates the advertised total once the catalog reports a
// higher count than what is stored (step 4 of the polling algorithm).
func (r *Repository) SetAvailableLinks(ctx context.Context, date time.Time, platform string, available int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE granule_count
		SET available_links = $3, last_fetched_at = NOW()
		WHERE date = $1 AND platform = $2 AND available_links < $3`,
		date, platform, available,
	)
	if err != nil {
		return fmt.Errorf("set available_links for %s/%s: %w", date.Format("2006-01-02"), platform, err)
	}
	return nil
}

// IncrementFetchedLinks advances the count of granules processed off a page.
func (r *Repository) IncrementFetchedLinks(ctx context.Context, date time.Time, platform string, n int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE granule_count
		SET fetched_links = fetched_links + $3, last_fetched_at = NOW()
		WHERE date = $1 AND platform = $2`,
		date, platform, n,
	)
	if err != nil {
		return fmt.Errorf("increment fetched_links for %s/%s: %w", date.Format("2006-01-02"), platform, err)
	}
	return nil
}

// UndownloadedByIngestionDate is the query backing the requeuer: every
// granule whose ingestiondate is the given day that has not yet completed
// download.
func (r *Repository) UndownloadedByIngestionDate(ctx context.Context, date time.Time) ([]models.Granule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+granuleColumns+`
		FROM granule
		WHERE ingestiondate = $1 AND downloaded = FALSE
		ORDER BY id`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("query undownloaded granules for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []models.Granule
	for rows.Next() {
		g, err := r.scanGranule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan undownloaded granule: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
