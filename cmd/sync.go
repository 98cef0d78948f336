package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Playlists lists owned source playlists flagged with whether each already exists on YouTube.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine(ctx)
	if err != nil {
		return err
	}

	statuses, err := engine.PlaylistStatuses(ctx)
	if err != nil {
		return err
	}
	r.logger.Debug("quota used", "units", r.dest.QuotaCost())

	if cmd.Bool("json") {
		return r.writeJSON(statuses, true)
	}

	if len(statuses) == 0 {
		return r.writePlain("No Spotify playlists found\n")
	}
	for _, s := range statuses {
		mark := " "
		if s.Exists {
			mark = "✓"
		}
		if err := r.writePlain("%s %s\n", mark, s.Playlist.Name); err != nil {
			return err
		}
	}
	return r.writePlain("\n✓ = already on YouTube. Quota used: %d\n", r.dest.QuotaCost())
}

// Sync runs the reconciliation for the selected playlists and prints a summary.
//
// Quota exhaustion and unrecoverable destination listing failures are returned, giving exit status 1.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine(ctx)
	if err != nil {
		return err
	}

	selected, err := r.selectPlaylists(ctx, cmd, engine)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return r.writePlain("No playlists to sync\n")
	}
	r.logger.Info("starting sync", "playlists", len(selected))

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Debug(u.Message, "phase", u.Phase)
		}
	}()

	report, runErr := engine.Run(ctx, selected, progress)
	close(progress)
	<-done

	if _, err := r.output.Write(formatter.ReportToText(report)); err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to write output: %w", err))
	}

	if path := cmd.String("report"); path != "" {
		format, err := formatter.WriteReport(report, path)
		if err != nil {
			return errors.Join(runErr, err)
		}
		r.logger.Info("report written", "path", path, "format", format)
	}
	return runErr
}

func (r *Runner) selectPlaylists(ctx context.Context, cmd *cli.Command, engine *tasks.Engine) ([]models.SourcePlaylist, error) {
	names := cmd.StringSlice("playlist")
	switch {
	case cmd.Bool("interactive"):
		r.logs.muted.Store(true)
		defer r.logs.muted.Store(false)
		return r.pick(ctx, engine.PlaylistStatuses)
	case cmd.Bool("all"):
		return engine.SourcePlaylists(ctx), nil
	case len(names) > 0:
		return tasks.SelectPlaylists(engine.SourcePlaylists(ctx), names)
	default:
		return nil, fmt.Errorf("%w: pass --playlist NAME, --all or --interactive", shared.ErrMissingArgument)
	}
}

// History lists recent runs recorded by the sqlite backend.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	pair, err := r.ensureCaches(ctx)
	if err != nil {
		return err
	}
	if pair.DB() == nil {
		return fmt.Errorf("%w: run history needs cache.backend = %q", shared.ErrInvalidArgument, shared.CacheBackendSQLite)
	}

	runs, err := repositories.NewSyncRunRepository(pair.DB()).Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}
	if len(runs) == 0 {
		return r.writePlain("No runs recorded\n")
	}
	for _, run := range runs {
		status := "ok"
		if run.Aborted {
			status = "aborted"
		}
		if err := r.writePlain("%s  %-7s  playlists=%d added=%d quota=%d  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"), status, run.Playlists, run.Added, run.QuotaUsed, run.ID); err != nil {
			return err
		}
	}
	return nil
}
