// Package tasks drives the one-directional Spotify to YouTube reconciliation.
//
// # Run
//
// [Engine.Run] processes the selected source playlists in order. For each one it:
//
//  1. fetches the source tracks and skips the playlist when there are none
//  2. reuses the destination playlist with exactly the same name, or creates it
//  3. fetches the video ids already in the destination playlist
//  4. resolves every track to a video id (per-run match cache first) and adds the ones
//     not yet present
//
// A failed creation marks the playlist failed and moves on. A single track failure never
// stops its playlist. Quota exhaustion reported by the destination stops the whole run at once.
//
// # Query
//
// [Engine.PlaylistStatuses] lists the source playlists flagged with whether a destination
// playlist of the same name exists, for interactive selection.
//
// # Progress Reporting
//
// Both operations accept an optional channel of [ProgressUpdate]. Sends never block; updates
// are dropped when the channel is full.
package tasks
