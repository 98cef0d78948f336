package models

import (
	"fmt"
	"strings"
	"time"
)

// Track is the display form of a source track, "Artist1, Artist2: Title".
//
// It doubles as the per-run match cache key and the seed of the destination search query.
type Track string

// NewTrack builds a Track from artist names and a title.
//
// Blank artist names are ignored. It fails when no artist or no title remains.
func NewTrack(artists []string, title string) (Track, error) {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}

	title = strings.TrimSpace(title)
	switch {
	case len(names) == 0 && title == "":
		return "", fmt.Errorf("track has neither artist nor title")
	case len(names) == 0:
		return "", fmt.Errorf("track %q has no artist", title)
	case title == "":
		return "", fmt.Errorf("track by %s has no title", strings.Join(names, ", "))
	}
	return Track(strings.Join(names, ", ") + ": " + title), nil
}

func (t Track) String() string { return string(t) }

// SearchQuery appends suffix to the display string, separated by a space.
func (t Track) SearchQuery(suffix string) string {
	if suffix = strings.TrimSpace(suffix); suffix == "" {
		return string(t)
	}
	return string(t) + " " + suffix
}

// SourcePlaylist is a playlist owned at the source service.
type SourcePlaylist struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// DestinationPlaylist is a playlist at the destination service.
type DestinationPlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlaylistStatus pairs a source playlist with whether a destination playlist of the same name exists.
type PlaylistStatus struct {
	Playlist SourcePlaylist `json:"playlist"`
	Exists   bool           `json:"exists"`
}

// SyncRun summarizes one finished run.
type SyncRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Playlists  int
	Added      int
	QuotaUsed  int
	Aborted    bool
}

// Validate checks the fields required to persist the run.
func (r SyncRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync run id is required")
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("sync run %s finished before it started", r.ID)
	}
	return nil
}
