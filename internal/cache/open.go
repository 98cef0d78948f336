package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/redis/go-redis/v9"
)

// Pair holds the source and destination stores plus whatever connection backs them.
type Pair struct {
	Spotify Store
	YouTube Store

	db  *sql.DB
	rdb *redis.Client
}

// Open builds both stores for the backend named in cfg.Cache.Backend.
func Open(ctx context.Context, cfg *shared.Config) (*Pair, error) {
	switch cfg.Cache.Backend {
	case shared.CacheBackendMemory:
		return &Pair{Spotify: NewMemoryStore(), YouTube: NewMemoryStore()}, nil

	case shared.CacheBackendJSON, "":
		spotify, err := OpenFileStore(cfg.CachePath(cfg.Cache.SpotifyFile))
		if err != nil {
			return nil, err
		}
		youtube, err := OpenFileStore(cfg.CachePath(cfg.Cache.YouTubeFile))
		if err != nil {
			return nil, err
		}
		return &Pair{Spotify: spotify, YouTube: youtube}, nil

	case shared.CacheBackendSQLite:
		db, err := shared.OpenMigrated(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
		}
		return NewSQLitePair(db), nil

	case shared.CacheBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("%w: redis at %s unreachable: %v", shared.ErrCacheIO, cfg.Redis.Addr, err)
		}
		return NewRedisPair(rdb, cfg.Redis.Prefix), nil

	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownBackend, cfg.Cache.Backend)
	}
}

// NewSQLitePair wraps an already migrated database.
func NewSQLitePair(db *sql.DB) *Pair {
	repo := repositories.NewCacheEntryRepository(db)
	return &Pair{
		Spotify: NewSQLiteStore(repo, NamespaceSpotify),
		YouTube: NewSQLiteStore(repo, NamespaceYouTube),
		db:      db,
	}
}

// NewRedisPair wraps a connected client.
func NewRedisPair(rdb *redis.Client, prefix string) *Pair {
	return &Pair{
		Spotify: NewRedisStore(rdb, prefix, NamespaceSpotify),
		YouTube: NewRedisStore(rdb, prefix, NamespaceYouTube),
		rdb:     rdb,
	}
}

// DB returns the SQLite handle when the pair is sqlite backed, or nil.
func (p *Pair) DB() *sql.DB { return p.db }

// Store returns the store for namespace.
func (p *Pair) Store(namespace string) (Store, error) {
	switch namespace {
	case NamespaceSpotify:
		return p.Spotify, nil
	case NamespaceYouTube:
		return p.YouTube, nil
	default:
		return nil, fmt.Errorf("%w: unknown cache %q", shared.ErrInvalidArgument, namespace)
	}
}

// Close releases the backing connection, if any.
func (p *Pair) Close() error {
	var errs []error
	if p.db != nil {
		errs = append(errs, p.db.Close())
	}
	if p.rdb != nil {
		errs = append(errs, p.rdb.Close())
	}
	return errors.Join(errs...)
}
