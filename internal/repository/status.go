package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CursorKey builds the status-table key for a (date, platform) pair's
// paging cursor, the durability mechanism behind step 8 of the polling
// algorithm.
func CursorKey(date, platform string) string {
	return "fetch_cursor:" + date + ":" + platform
}

// GetStatus reads a status row's value, returning "" if absent.
func (r *Repository) GetStatus(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM status WHERE key = $1`, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get status %s: %w", key, err)
	}
	return value, nil
}

// SetStatus upserts a status row. The poller calls it once per non-empty
// page, after that page's granules are admitted; pages that complete the
// (date, platform) or fail leave the stored cursor unchanged.
func (r *Repository) SetStatus(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO status (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set status %s: %w", key, err)
	}
	return nil
}
