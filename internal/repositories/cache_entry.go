package repositories

import (
	"database/sql"
	"fmt"
)

// CacheEntryRepository stores raw payloads keyed by (namespace, key) in the cache_entries table.
type CacheEntryRepository struct {
	db *sql.DB
}

// NewCacheEntryRepository creates a new CacheEntryRepository with the given database connection
func NewCacheEntryRepository(db *sql.DB) *CacheEntryRepository {
	return &CacheEntryRepository{db: db}
}

// Get returns the payload for key, or [ErrNotFound].
func (r *CacheEntryRepository) Get(namespace, key string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRow(
		"SELECT payload FROM cache_entries WHERE namespace = ? AND cache_key = ?", namespace, key,
	).Scan(&payload)
	if err != nil {
		return nil, scanErr("cache entry", err)
	}
	return payload, nil
}

// Upsert inserts or replaces the payload for key.
func (r *CacheEntryRepository) Upsert(namespace, key string, payload []byte) error {
	query := `
		INSERT INTO cache_entries (namespace, cache_key, payload) VALUES (?, ?, ?)
		ON CONFLICT (namespace, cache_key) DO UPDATE SET payload = excluded.payload, created_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, namespace, key, payload); err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// DeleteNamespace removes every entry of namespace.
func (r *CacheEntryRepository) DeleteNamespace(namespace string) error {
	if _, err := r.db.Exec("DELETE FROM cache_entries WHERE namespace = ?", namespace); err != nil {
		return fmt.Errorf("failed to clear cache namespace %s: %w", namespace, err)
	}
	return nil
}

// Count returns the number of entries in namespace.
func (r *CacheEntryRepository) Count(namespace string) (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM cache_entries WHERE namespace = ?", namespace).Scan(&n); err != nil {
		return 0, scanErr("cache entry count", err)
	}
	return n, nil
}
