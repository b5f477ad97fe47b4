package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kraklabs/sentinel2ingest/internal/models"
)

// AcquireLease implements step 1 of the download contract: load the granule
// and, if it is eligible, atomically mark it in_progress with a fresh lease.
//
// A row is eligible if it is not currently leased, OR its lease_expires_at
// has passed (a worker died mid-download without clearing in_progress).
// This is a single time-based lease per granule, resolving stale leases
// without requiring a separate reclaim step.
//
// A nil, nil return means the caller should drop the message: the granule
// does not exist, is already downloaded, or is validly leased by another
// worker.
func (r *Repository) AcquireLease(ctx context.Context, id string, leaseTTL time.Duration) (*models.Granule, error) {
	g, err := r.scanGranule(r.db.QueryRow(ctx, `
		UPDATE granule
		SET in_progress = TRUE,
		    download_started = COALESCE(download_started, NOW()),
		    lease_expires_at = NOW() + $2
		WHERE id = $1
		  AND downloaded = FALSE
		  AND (in_progress = FALSE OR lease_expires_at < NOW())
		RETURNING `+granuleColumns,
		id, leaseTTL,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lease for granule %s: %w", id, err)
	}
	return g, nil
}

// CompleteDownload commits the success transition (step 6).
func (r *Repository) CompleteDownload(ctx context.Context, id, objectLocation string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE granule
		SET downloaded = TRUE,
		    in_progress = FALSE,
		    download_finished = NOW(),
		    lease_expires_at = NULL,
		    uploaded_granule_file_location = $2
		WHERE id = $1`,
		id, objectLocation,
	)
	if err != nil {
		return fmt.Errorf("complete download for granule %s: %w", id, err)
	}
	return nil
}

// FailTransient clears the lease and increments the retry counter (step 7).
// The caller is responsible for re-publishing the queue message.
func (r *Repository) FailTransient(ctx context.Context, id string) (retries int, err error) {
	err = r.db.QueryRow(ctx, `
		UPDATE granule
		SET in_progress = FALSE,
		    lease_expires_at = NULL,
		    download_retries = download_retries + 1
		WHERE id = $1
		RETURNING download_retries`,
		id,
	).Scan(&retries)
	if err != nil {
		return 0, fmt.Errorf("record transient failure for granule %s: %w", id, err)
	}
	return retries, nil
}

// Abandon clears the lease without requeueing once download_retries has hit
// MAX_RETRIES. The granule is left with downloaded=false, expired=false.
func (r *Repository) Abandon(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE granule
		SET in_progress = FALSE,
		    lease_expires_at = NULL
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("abandon granule %s: %w", id, err)
	}
	return nil
}

// MarkExpired records an upstream 404/410 (product no longer retrievable).
func (r *Repository) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE granule
		SET in_progress = FALSE,
		    lease_expires_at = NULL,
		    expired = TRUE
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark granule %s expired: %w", id, err)
	}
	return nil
}

// UpdateChecksum refreshes granule.checksum from the upstream metadata
// endpoint. Preserved deliberately on every download attempt per the
// checksum-drift design note: upstream occasionally corrects it.
func (r *Repository) UpdateChecksum(ctx context.Context, id, checksum string) error {
	_, err := r.db.Exec(ctx, `UPDATE granule SET checksum = $2 WHERE id = $1`, id, checksum)
	if err != nil {
		return fmt.Errorf("update checksum for granule %s: %w", id, err)
	}
	return nil
}

const granuleColumns = `
	id, filename, tileid, size, checksum,
	beginposition, endposition, ingestiondate, download_url,
	downloaded, in_progress, expired,
	uploaded_granule_file_location, download_started, download_finished,
	lease_expires_at, download_retries`

func (r *Repository) scanGranule(row pgx.Row) (*models.Granule, error) {
	var g models.Granule
	err := row.Scan(
		&g.ID, &g.Filename, &g.TileID, &g.Size, &g.Checksum,
		&g.BeginPosition, &g.EndPosition, &g.IngestionDate, &g.DownloadURL,
		&g.Downloaded, &g.InProgress, &g.Expired,
		&g.UploadedGranuleFileLocation, &g.DownloadStarted, &g.DownloadFinished,
		&g.LeaseExpiresAt, &g.DownloadRetries,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
