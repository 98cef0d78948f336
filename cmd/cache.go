package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytsync/internal/cache"
	"github.com/urfave/cli/v3"
)

// cacheStat is the per-namespace entry count reported by [Runner.CacheStats].
type cacheStat struct {
	Service string `json:"service"`
	Entries int    `json:"entries"`
}

func namespaces(service string) []string {
	if service != "" && service != "all" {
		return []string{service}
	}
	return []string{cache.NamespaceSpotify, cache.NamespaceYouTube}
}

// CacheClear deletes one or both lookup caches.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	pair, err := r.ensureCaches(ctx)
	if err != nil {
		return err
	}

	for _, ns := range namespaces(cmd.String("service")) {
		store, err := pair.Store(ns)
		if err != nil {
			return err
		}
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear %s cache: %w", ns, err)
		}
		r.logger.Info("cache cleared", "service", ns)
		if err := r.writePlain("✓ Cleared %s cache\n", ns); err != nil {
			return err
		}
	}
	return nil
}

// CacheStats prints the number of entries in each cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	pair, err := r.ensureCaches(ctx)
	if err != nil {
		return err
	}

	stats := make([]cacheStat, 0, 2)
	for _, ns := range namespaces("") {
		store, err := pair.Store(ns)
		if err != nil {
			return err
		}
		n, err := store.Len(ctx)
		if err != nil {
			return fmt.Errorf("failed to count %s cache: %w", ns, err)
		}
		stats = append(stats, cacheStat{Service: ns, Entries: n})
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}
	if err := r.writePlain("Backend: %s\n", r.config.Cache.Backend); err != nil {
		return err
	}
	for _, s := range stats {
		if err := r.writePlain("%-8s %d entries\n", s.Service, s.Entries); err != nil {
			return err
		}
	}
	return nil
}
