// Package ui implements the interactive playlist picker used by `ytsync sync --interactive`.
//
// [Picker] is a bubbletea model over a bubbles list. It loads [models.PlaylistStatus] values through
// a loader, marks playlists that already exist on YouTube, and lets the user toggle a selection.
// [Pick] runs the program and returns the chosen playlists, or [shared.ErrUserAborted] when the user quits.
package ui
