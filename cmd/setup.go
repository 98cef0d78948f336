package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the config file when missing, creates the cache directory and, for the sqlite
// backend, runs database migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return err
		}
		if err := r.writePlain("✓ Created %s\n", r.configPath); err != nil {
			return err
		}

		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return err
		}
		if err := config.ApplyEnv(cmd.String("env")); err != nil {
			return err
		}
		r.config = config
	} else {
		if err := r.writePlain("✓ Using existing %s\n", r.configPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(r.config.Cache.Dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create cache directory: %v", shared.ErrCacheIO, err)
	}
	if err := r.writePlain("✓ Cache directory %s (backend %s)\n", r.config.Cache.Dir, r.config.Cache.Backend); err != nil {
		return err
	}

	if r.config.Cache.Backend == shared.CacheBackendSQLite {
		r.logger.Info("initializing database", "path", r.config.Database.Path)
		db, err := shared.OpenMigrated(r.config.Database)
		if err != nil {
			return fmt.Errorf("failed to prepare database: %w", err)
		}
		defer db.Close()

		version, err := shared.CurrentVersion(db)
		if err != nil {
			return err
		}
		if err := r.writePlain("✓ Database %s at schema version %d\n", r.config.Database.Path, version); err != nil {
			return err
		}
	}

	if err := r.writePlain("\nNext steps:\n"); err != nil {
		return err
	}
	for _, step := range []string{
		fmt.Sprintf("Fill in [credentials] in %s (or SPOTIFY_/YOUTUBE_ variables in .env)", r.configPath),
		"Run 'ytsync auth spotify' and 'ytsync auth youtube'",
		"Run 'ytsync playlists' to check both connections",
	} {
		if err := r.writePlain("  - %s\n", step); err != nil {
			return err
		}
	}
	return nil
}
