// Package cache implements the persisted lookup caches shared by the source and destination clients.
//
// A [Store] maps a cache key (playlist id, "playlists_<flag>" or a search query) to the raw payload
// previously returned for it. Every Put is written through to the backing medium immediately.
// Entries never expire; [Store.Clear] is the only invalidation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/ytsync/internal/shared"
)

// Namespaces of the two stores, one per external service.
const (
	NamespaceSpotify = "spotify"
	NamespaceYouTube = "youtube"
)

// Store is a durable key/value memo.
type Store interface {
	// Get returns the payload for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key and persists it before returning.
	Put(ctx context.Context, key string, value []byte) error
	// Clear deletes the backing store and resets in-memory state.
	Clear(ctx context.Context) error
	// Len reports the number of entries.
	Len(ctx context.Context) (int, error)
}

// GetJSON decodes the payload stored under key into a T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var v T
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("%w: undecodable entry %q: %v", shared.ErrCacheIO, key, err)
	}
	return v, true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: failed to encode entry %q: %v", shared.ErrCacheIO, key, err)
	}
	return s.Put(ctx, key, raw)
}
