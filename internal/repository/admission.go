package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kraklabs/sentinel2ingest/internal/models"
)

// Publisher is the "to-download" queue as seen by admission: one method,
// publish a message for a newly admitted granule.
type Publisher interface {
	Publish(ctx context.Context, id, downloadURL string) error
}

// Admit performs the shared conditional-insert admission routine used by
// both the polling fetcher and the push subscription handler. It is
// exactly-once under concurrent callers: the unique constraint on id means
// at most one caller observes the RETURNING row and therefore publishes.
//
// The source publishes after commit; this mirrors that choice (see
// DESIGN.md for the tradeoff against a transactional outbox).
func (r *Repository) Admit(ctx context.Context, g models.Granule, pub Publisher) (admitted bool, err error) {
	var id string
	err = r.db.QueryRow(ctx, `
		INSERT INTO granule (
			id, filename, tileid, size, checksum,
			beginposition, endposition, ingestiondate, download_url,
			downloaded, in_progress, download_retries
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, FALSE, 0)
		ON CONFLICT (id) DO NOTHING
		RETURNING id`,
		g.ID, g.Filename, g.TileID, g.Size, g.Checksum,
		g.BeginPosition, g.EndPosition, g.IngestionDate, g.DownloadURL,
	).Scan(&id)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("admit granule %s: %w", g.ID, err)
	}

	if pubErr := pub.Publish(ctx, g.ID, g.DownloadURL); pubErr != nil {
		return true, fmt.Errorf("publish admitted granule %s: %w", g.ID, pubErr)
	}
	return true, nil
}
