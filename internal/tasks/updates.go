package tasks

import (
	"fmt"

	"github.com/desertthunder/ytsync/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Phase enumerates the stages of a run.
type Phase int

const (
	FetchSource Phase = iota
	FetchDestination
	ResolvePlaylist
	FetchItems
	MatchTracks
	Finished
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FetchDestination:
		return "fetch_destination"
	case ResolvePlaylist:
		return "resolve_playlist"
	case FetchItems:
		return "fetch_items"
	case MatchTracks:
		return "match_tracks"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func fetchDestinationUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchDestination, Step: 1, Total: 1, Message: "Listing YouTube playlists..."}
}

func fetchSourceUpdate(step, total int, pl models.SourcePlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks of %s...", step, total, pl.Name),
		Data:    pl,
	}
}

func resolvePlaylistUpdate(step, total int, pl models.SourcePlaylist, created bool) ProgressUpdate {
	verb := "Reusing"
	if created {
		verb = "Created"
	}
	return ProgressUpdate{
		Phase:   ResolvePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s YouTube playlist %s", step, total, verb, pl.Name),
	}
}

func fetchItemsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching existing items of %s...", step, total, name),
	}
}

func matchTrackUpdate(step, total int, tr TrackReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, tr.Action, tr.Track),
		Data:    tr,
	}
}

func finishedUpdate(r *Report) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d videos, quota used %d", r.Added(), r.QuotaUsed),
		Data:    r,
	}
}
