package services

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/desertthunder/ytsync/internal/cache"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptySpotifyItems = `{"href": "https://api.spotify.com/v1/playlists/p3/tracks", "limit": 100, "offset": 0, "total": 0, "next": null, "items": []}`

// syncHarness builds fresh clients over file stores in dir, as a new process would.
func syncHarness(t *testing.T, dir string) (*SpotifySource, *YouTubeDestination, *httpmock.MockTransport, *httpmock.MockTransport) {
	t.Helper()
	spotifyStore, err := cache.OpenFileStore(filepath.Join(dir, "spotify_cache.json"))
	require.NoError(t, err)
	youtubeStore, err := cache.OpenFileStore(filepath.Join(dir, "youtube_cache.json"))
	require.NoError(t, err)

	src, smt := newSpotifyMock(t, spotifyStore, true)
	dest, ymt := newYouTubeMock(t, youtubeStore)
	return src, dest, smt, ymt
}

func registerSearch(ymt *httpmock.MockTransport) {
	ymt.RegisterResponder("GET", ytSearch, func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("q") == "Daft Punk: One More Time music video" {
			return httpmock.NewStringResponse(200, `{"items": [{"id": {"kind": "youtube#video", "videoId": "vid1"}}]}`), nil
		}
		return httpmock.NewStringResponse(200, `{"items": []}`), nil
	})
}

func TestSyncAcrossRuns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src, dest, smt, ymt := syncHarness(t, dir)
	registerPlaylists(smt)
	smt.RegisterResponder("GET", spotifyItemsP1, httpmock.NewStringResponder(200, playlistItems))
	smt.RegisterResponder("GET", `=~^https://api\.spotify\.com/v1/playlists/p3/`, httpmock.NewStringResponder(200, emptySpotifyItems))
	ymt.RegisterResponder("GET", ytPlaylists, httpmock.NewStringResponder(200, `{"items": []}`))
	ymt.RegisterResponder("POST", ytPlaylists, httpmock.NewStringResponder(200, `{"id": "PLnew", "snippet": {"title": "Workout"}}`))
	ymt.RegisterResponder("GET", ytItems, httpmock.NewStringResponder(200, `{"items": []}`))
	ymt.RegisterResponder("POST", ytItems, httpmock.NewStringResponder(200, `{"id": "item1"}`))
	registerSearch(ymt)

	engine := tasks.NewEngine(tasks.EngineOpts{Source: src, Destination: dest})
	report, err := engine.Run(ctx, engine.SourcePlaylists(ctx), nil)
	require.NoError(t, err)

	require.Len(t, report.Playlists, 2)
	workout, focus := report.Playlists[0], report.Playlists[1]
	assert.Equal(t, tasks.OutcomeSynced, workout.Outcome)
	assert.True(t, workout.Created)
	assert.Equal(t, 1, workout.Count(tasks.ActionAdded))
	assert.Equal(t, 1, workout.Count(tasks.ActionUnmatched))
	assert.Equal(t, tasks.OutcomeSkipped, focus.Outcome)
	// list + insert + items + two searches + one add
	assert.Equal(t, 1+50+1+100+100+50, report.QuotaUsed)

	src, dest, smt, ymt = syncHarness(t, dir)
	ymt.RegisterResponder("GET", ytPlaylists, httpmock.NewStringResponder(200, `{"items": [{"id": "PLnew", "snippet": {"title": "Workout"}}]}`))
	registerSearch(ymt)

	engine = tasks.NewEngine(tasks.EngineOpts{Source: src, Destination: dest})
	report, err = engine.Run(ctx, engine.SourcePlaylists(ctx), nil)
	require.NoError(t, err)

	assert.Zero(t, src.Queries(), "source served from cache")
	assert.Zero(t, smt.GetTotalCallCount())
	workout = report.Playlists[0]
	assert.False(t, workout.Created)
	assert.Equal(t, 0, workout.Count(tasks.ActionAdded))
	assert.Equal(t, 1, workout.Count(tasks.ActionAlreadyPresent))
	// list + the unmatched track searched again; items and the matched search come from cache
	assert.Equal(t, 1+100, report.QuotaUsed)
}
