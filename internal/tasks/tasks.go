package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/samber/lo"
)

// Source lists playlists and tracks at the source service.
type Source interface {
	ListOwnedPlaylists(ctx context.Context) models.Result[[]models.SourcePlaylist]
	ListPlaylistTracks(ctx context.Context, playlistID string) models.Result[[]models.Track]
}

// Destination reads and writes playlists at the destination service.
type Destination interface {
	ListPlaylists(ctx context.Context) models.Result[map[string]string]
	GetPlaylistItems(ctx context.Context, playlistID string) models.Result[[]string]
	CreatePlaylist(ctx context.Context, name string) models.Result[models.DestinationPlaylist]
	ResolveVideoID(ctx context.Context, track models.Track) models.Result[string]
	AddItem(ctx context.Context, playlistID, videoID string) models.Result[string]
	QuotaCost() int
}

// RunRecorder persists a summary of each finished run.
type RunRecorder interface {
	Create(run models.SyncRun) error
}

// EngineOpts configures an [Engine]. Source and Destination are required.
type EngineOpts struct {
	Source      Source
	Destination Destination
	Logger      *log.Logger
	Recorder    RunRecorder
	Now         func() time.Time
}

// Engine runs the reconciliation.
type Engine struct {
	source   Source
	dest     Destination
	logger   *log.Logger
	recorder RunRecorder
	now      func() time.Time
}

func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		source:   opts.Source,
		dest:     opts.Destination,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		now:      opts.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SourcePlaylists lists the source playlists. A soft failure yields an empty list.
func (e *Engine) SourcePlaylists(ctx context.Context) []models.SourcePlaylist {
	res := e.source.ListOwnedPlaylists(ctx)
	if !res.IsOK() {
		e.logger.Warn("source playlists unavailable", "error", res.Err)
		return nil
	}
	return res.Value
}

// destinationIndex lists destination playlists. Any failure, even with a partial listing, is an error.
func (e *Engine) destinationIndex(ctx context.Context) (map[string]string, error) {
	res := e.dest.ListPlaylists(ctx)
	switch {
	case res.IsQuotaExceeded():
		return nil, res.Err
	case res.IsOK():
		return res.Value, nil
	case errors.Is(res.Err, shared.ErrDestinationUnavailable):
		return nil, res.Err
	default:
		return nil, fmt.Errorf("%w: %v", shared.ErrDestinationUnavailable, res.Err)
	}
}

// PlaylistStatuses lists source playlists with whether each already exists at the destination.
func (e *Engine) PlaylistStatuses(ctx context.Context) ([]models.PlaylistStatus, error) {
	index, err := e.destinationIndex(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(e.SourcePlaylists(ctx), func(p models.SourcePlaylist, _ int) models.PlaylistStatus {
		_, exists := index[p.Name]
		return models.PlaylistStatus{Playlist: p, Exists: exists}
	}), nil
}

// Run syncs playlists in order. The returned report is never nil; it is partial when err is not.
//
// err wraps [shared.ErrQuotaExceeded] when the destination ran out of quota, or
// [shared.ErrDestinationUnavailable] when destination playlists could not be listed.
func (e *Engine) Run(ctx context.Context, playlists []models.SourcePlaylist, progress chan<- ProgressUpdate) (report *Report, err error) {
	report = &Report{RunID: shared.NewRunID(), StartedAt: e.now()}
	logger := shared.WithLogger(e.logger, "run_id", report.RunID)

	defer func() {
		report.FinishedAt = e.now()
		report.QuotaUsed = e.dest.QuotaCost()
		if err != nil {
			report.Aborted = true
			report.AbortReason = err.Error()
			logger.Error("run aborted", "error", err, "quota_used", report.QuotaUsed)
		} else {
			logger.Info("run finished", "playlists", len(report.Playlists), "added", report.Added(), "quota_used", report.QuotaUsed)
		}
		e.record(logger, report)
		sendProgress(progress, finishedUpdate(report))
	}()

	sendProgress(progress, fetchDestinationUpdate())
	index, err := e.destinationIndex(ctx)
	if err != nil {
		return report, err
	}

	run := &playlistRun{
		engine:   e,
		logger:   logger,
		index:    index,
		matches:  make(map[models.Track]string),
		progress: progress,
		total:    len(playlists),
	}
	for i, pl := range playlists {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		pr, err := run.sync(ctx, i+1, pl)
		report.Playlists = append(report.Playlists, pr)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (e *Engine) record(logger *log.Logger, report *Report) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Create(report.SyncRun()); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

// playlistRun holds the state shared by every playlist of one run.
type playlistRun struct {
	engine   *Engine
	logger   *log.Logger
	index    map[string]string       // destination name -> id
	matches  map[models.Track]string // per-run match cache, positive results only
	progress chan<- ProgressUpdate
	total    int
}

// sync processes one playlist. A non-nil error aborts the run.
func (r *playlistRun) sync(ctx context.Context, step int, pl models.SourcePlaylist) (PlaylistReport, error) {
	src, dest := r.engine.source, r.engine.dest
	logger := r.logger.With("playlist", pl.Name)
	report := PlaylistReport{Name: pl.Name, SourceID: pl.ID}

	sendProgress(r.progress, fetchSourceUpdate(step, r.total, pl))
	tracks := src.ListPlaylistTracks(ctx, pl.ID)
	if len(tracks.Value) == 0 {
		logger.Info("no tracks, skipping", "error", tracks.Err)
		report.Outcome = OutcomeSkipped
		return report, nil
	}

	destID, exists := r.index[pl.Name]
	if exists {
		logger.Info("playlist already exists", "id", destID)
	} else {
		created := dest.CreatePlaylist(ctx, pl.Name)
		switch {
		case created.IsQuotaExceeded():
			return failed(report, created.Err), created.Err
		case !created.IsOK() || created.Value.ID == "":
			logger.Error("could not create playlist, skipping", "error", created.Err)
			return failed(report, created.Err), nil
		}
		destID = created.Value.ID
		r.index[pl.Name] = destID
		report.Created = true
	}
	report.DestinationID = destID
	sendProgress(r.progress, resolvePlaylistUpdate(step, r.total, pl, report.Created))

	sendProgress(r.progress, fetchItemsUpdate(step, r.total, pl.Name))
	items := dest.GetPlaylistItems(ctx, destID)
	if items.IsQuotaExceeded() {
		return failed(report, items.Err), items.Err
	}
	if !items.IsOK() {
		logger.Warn("existing items incomplete, dedup may miss some", "error", items.Err, "known", len(items.Value))
	}
	present := lo.SliceToMap(items.Value, func(id string) (string, bool) { return id, true })

	for i, track := range tracks.Value {
		tr, err := r.syncTrack(ctx, logger, destID, track, present)
		report.Tracks = append(report.Tracks, tr)
		sendProgress(r.progress, matchTrackUpdate(i+1, len(tracks.Value), tr))
		if err != nil {
			return failed(report, err), err
		}
	}

	report.Outcome = OutcomeSynced
	logger.Info("playlist synced",
		"added", report.Count(ActionAdded),
		"present", report.Count(ActionAlreadyPresent),
		"unmatched", report.Count(ActionUnmatched),
		"failed", report.Count(ActionAddFailed),
	)
	return report, nil
}

// syncTrack resolves and adds one track. A non-nil error is quota exhaustion or cancellation.
func (r *playlistRun) syncTrack(ctx context.Context, logger *log.Logger, playlistID string, track models.Track, present map[string]bool) (TrackReport, error) {
	tr := TrackReport{Track: track}
	if err := ctx.Err(); err != nil {
		return tr, err
	}

	videoID, ok := r.matches[track]
	if !ok {
		res := r.engine.dest.ResolveVideoID(ctx, track)
		switch {
		case res.IsQuotaExceeded():
			return tr, res.Err
		case !res.IsOK() || res.Value == "":
			logger.Warn("no match found", "track", track, "error", res.Err)
			tr.Action = ActionUnmatched
			tr.Error = errString(res.Err)
			return tr, nil
		}
		videoID = res.Value
		r.matches[track] = videoID
	}
	tr.VideoID = videoID

	if present[videoID] {
		logger.Info("already in list", "track", track, "video", videoID)
		tr.Action = ActionAlreadyPresent
		return tr, nil
	}

	added := r.engine.dest.AddItem(ctx, playlistID, videoID)
	switch {
	case added.IsQuotaExceeded():
		tr.Action = ActionAddFailed
		tr.Error = errString(added.Err)
		return tr, added.Err
	case !added.IsOK():
		logger.Warn("failed to add", "track", track, "video", videoID, "error", added.Err)
		tr.Action = ActionAddFailed
		tr.Error = errString(added.Err)
		return tr, nil
	}

	present[videoID] = true
	logger.Info("added", "track", track, "video", videoID)
	tr.Action = ActionAdded
	return tr, nil
}

func failed(report PlaylistReport, err error) PlaylistReport {
	report.Outcome = OutcomeFailed
	report.Error = errString(err)
	return report
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// SelectPlaylists picks playlists by exact name, keeping the order of all.
func SelectPlaylists(all []models.SourcePlaylist, names []string) ([]models.SourcePlaylist, error) {
	if len(names) == 0 {
		return all, nil
	}

	known := lo.SliceToMap(all, func(p models.SourcePlaylist) (string, bool) { return p.Name, true })
	if missing := lo.Filter(names, func(n string, _ int) bool { return !known[n] }); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistNotFound, missing)
	}
	return lo.Filter(all, func(p models.SourcePlaylist, _ int) bool { return lo.Contains(names, p.Name) }), nil
}
