package tasks

import (
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/samber/lo"
)

// Outcome is the terminal state of one playlist in a run.
type Outcome int

const (
	OutcomeSkipped Outcome = iota // no tracks to sync
	OutcomeSynced                 // destination resolved or created, tracks processed
	OutcomeFailed                 // destination could not be created, or the run aborted inside it
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSynced:
		return "synced"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// TrackAction records what happened to one track.
type TrackAction string

const (
	ActionAdded          TrackAction = "added"
	ActionAlreadyPresent TrackAction = "already_present"
	ActionUnmatched      TrackAction = "unmatched"
	ActionAddFailed      TrackAction = "add_failed"
)

// TrackReport is the result for one source track.
type TrackReport struct {
	Track   models.Track `json:"track"`
	VideoID string       `json:"video_id,omitempty"`
	Action  TrackAction  `json:"action"`
	Error   string       `json:"error,omitempty"`
}

// PlaylistReport is the result for one source playlist.
type PlaylistReport struct {
	Name          string        `json:"name"`
	SourceID      string        `json:"source_id"`
	DestinationID string        `json:"destination_id,omitempty"`
	Created       bool          `json:"created"`
	Outcome       Outcome       `json:"outcome"`
	Tracks        []TrackReport `json:"tracks,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// Count returns how many tracks ended with action.
func (p PlaylistReport) Count(action TrackAction) int {
	return lo.CountBy(p.Tracks, func(t TrackReport) bool { return t.Action == action })
}

// Report summarizes a sync run.
type Report struct {
	RunID       string           `json:"run_id"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Playlists   []PlaylistReport `json:"playlists"`
	QuotaUsed   int              `json:"quota_used"`
	Aborted     bool             `json:"aborted"`
	AbortReason string           `json:"abort_reason,omitempty"`
}

// Added returns the number of videos added across every playlist.
func (r *Report) Added() int {
	return lo.SumBy(r.Playlists, func(p PlaylistReport) int { return p.Count(ActionAdded) })
}

// Created returns the number of destination playlists created.
func (r *Report) Created() int {
	return lo.CountBy(r.Playlists, func(p PlaylistReport) bool { return p.Created })
}

// Outcomes counts playlists per outcome.
func (r *Report) Outcomes() map[Outcome]int {
	return lo.CountValuesBy(r.Playlists, func(p PlaylistReport) Outcome { return p.Outcome })
}

// SyncRun converts the report into its persisted summary.
func (r *Report) SyncRun() models.SyncRun {
	return models.SyncRun{
		ID:         r.RunID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Playlists:  len(r.Playlists),
		Added:      r.Added(),
		QuotaUsed:  r.QuotaUsed,
		Aborted:    r.Aborted,
	}
}
