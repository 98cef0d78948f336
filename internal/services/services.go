package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/cache"
)

// cachedLookup reads key from store, treating a read or decode error as a miss.
func cachedLookup[T any](ctx context.Context, logger *log.Logger, store cache.Store, key string) (T, bool) {
	v, ok, err := cache.GetJSON[T](ctx, store, key)
	if err != nil {
		logger.Warn("cache read failed, fetching", "key", key, "error", err)
		return v, false
	}
	if ok {
		logger.Debug("cache hit", "key", key)
	}
	return v, ok
}
