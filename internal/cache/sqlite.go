package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/shared"
)

// SQLiteStore keeps entries in the cache_entries table under one namespace.
type SQLiteStore struct {
	repo      *repositories.CacheEntryRepository
	namespace string
}

func NewSQLiteStore(repo *repositories.CacheEntryRepository, namespace string) *SQLiteStore {
	return &SQLiteStore{repo: repo, namespace: namespace}
}

func (s *SQLiteStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, err := s.repo.Get(s.namespace, key)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) Put(_ context.Context, key string, value []byte) error {
	if err := s.repo.Upsert(s.namespace, key, value); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(context.Context) error {
	if err := s.repo.DeleteNamespace(s.namespace); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	return nil
}

func (s *SQLiteStore) Len(context.Context) (int, error) {
	return s.repo.Count(s.namespace)
}
