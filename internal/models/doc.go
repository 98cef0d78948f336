// Package models defines the values that flow between the ytsync source client, destination client and orchestrator.
//
//   - [Track] : "Artist1, Artist2: Title" display string built from source metadata
//   - [SourcePlaylist] : playlist id and name at the source service
//   - [DestinationPlaylist] : playlist id and name at the destination, items fetched on demand
//   - [PlaylistStatus] : a source playlist flagged with whether its name exists at the destination
//   - [Result] : explicit success / soft failure / quota exceeded outcome of a client call
//   - [SyncRun] : summary row persisted after each run
package models
