package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytsync/internal/models"
)

// SyncRunRepository records finished sync runs in the sync_runs table.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts run after validating it.
func (r *SyncRunRepository) Create(run models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (id, started_at, finished_at, playlists, added, quota_used, aborted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Playlists, run.Added, run.QuotaUsed, run.Aborted)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *SyncRunRepository) Recent(limit int) ([]models.SyncRun, error) {
	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, playlists, added, quota_used, aborted
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Playlists, &run.Added, &run.QuotaUsed, &run.Aborted); err != nil {
			return nil, scanErr("sync run", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
