// Package services wraps the two external APIs ytsync talks to.
//
// [SpotifySource] is the source client built on github.com/zmb3/spotify/v2. It lists the
// playlists owned by the authenticated user and formats each playlist's tracks as
// "Artist1, Artist2: Title" display strings.
//
// [YouTubeDestination] is the destination client built on google.golang.org/api/youtube/v3.
// It lists, creates and fills playlists, searches for videos, and charges every issued
// request to a [QuotaMeter].
//
// Both clients consult a [cache.Store] before touching the network and write results
// through to it afterwards. Calls return [models.Result] so callers can tell a logged soft
// failure from the quota exhaustion that must stop a run.
package services
