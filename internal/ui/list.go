package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytsync/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.PlaylistStatus] to implement [list.Item].
type playlistItem struct {
	status   models.PlaylistStatus
	selected bool
}

func (i playlistItem) FilterValue() string { return i.status.Playlist.Name }

func (i playlistItem) Title() string {
	box := "[ ] "
	if i.selected {
		box = styles.selected.Render("[x] ")
	}
	return box + i.status.Playlist.Name
}

func (i playlistItem) Description() string {
	if i.status.Exists {
		return styles.exists.Render("exists on YouTube, missing videos will be added")
	}
	return "will be created on YouTube"
}

func toItems(statuses []models.PlaylistStatus) []list.Item {
	items := make([]list.Item, len(statuses))
	for i, s := range statuses {
		items[i] = playlistItem{status: s}
	}
	return items
}
