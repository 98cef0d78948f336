package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsync/internal/models"
)

var _ tea.Msg = statusesLoadedMsg{}

// statusesLoadedMsg carries the loader's result into Update.
type statusesLoadedMsg struct {
	statuses []models.PlaylistStatus
	err      error
}
