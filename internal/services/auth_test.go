package services

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestOAuthConfigs(t *testing.T) {
	creds := shared.OAuthClientConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://127.0.0.1:8888/callback"}

	sp := SpotifyOAuthConfig(creds)
	assert.Equal(t, "https://accounts.spotify.com/authorize", sp.Endpoint.AuthURL)
	assert.Contains(t, sp.Scopes, "playlist-read-private")

	yt := YouTubeOAuthConfig(creds)
	assert.Equal(t, "https://oauth2.googleapis.com/token", yt.Endpoint.TokenURL)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/youtube"}, yt.Scopes)
	assert.Equal(t, creds.RedirectURI, yt.RedirectURL)
}

func TestValidateClient(t *testing.T) {
	assert.NoError(t, ValidateClient("spotify", shared.OAuthClientConfig{ClientID: "a", ClientSecret: "b"}))
	assert.ErrorIs(t, ValidateClient("spotify", shared.OAuthClientConfig{ClientID: "a"}), shared.ErrMissingCredentials)
	assert.ErrorIs(t, ValidateClient("youtube", shared.DefaultConfig().Credentials.YouTube), shared.ErrMissingCredentials)
}

func TestTokenFiles(t *testing.T) {
	t.Run("missing token is not authenticated", func(t *testing.T) {
		_, err := LoadToken(filepath.Join(t.TempDir(), "token.json"))
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens", "token.json")
		tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour).Round(time.Second)}
		require.NoError(t, SaveToken(path, tok))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		got, err := LoadToken(path)
		require.NoError(t, err)
		assert.Equal(t, "a", got.AccessToken)
		assert.Equal(t, "r", got.RefreshToken)
	})

	t.Run("corrupt token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		os.WriteFile(path, []byte("{"), 0600)
		_, err := LoadToken(path)
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})
}

func TestAuthorizedClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	expired := &oauth2.Token{AccessToken: "old", RefreshToken: "r", TokenType: "Bearer", Expiry: time.Now().Add(-time.Hour)}
	require.NoError(t, SaveToken(path, expired))

	mt := httpmock.NewMockTransport()
	mt.RegisterResponder("POST", "https://oauth2.googleapis.com/token",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"access_token":  "fresh",
			"refresh_token": "r",
			"token_type":    "Bearer",
			"expires_in":    3600,
		}))
	mt.RegisterResponder("GET", "https://example.test/ping", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer fresh", req.Header.Get("Authorization"))
		return httpmock.NewStringResponse(200, "ok"), nil
	})

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: mt})
	client, err := AuthorizedClient(ctx, YouTubeOAuthConfig(shared.OAuthClientConfig{ClientID: "id", ClientSecret: "s"}), path, nil)
	require.NoError(t, err)

	resp, err := client.Get("https://example.test/ping")
	require.NoError(t, err)
	resp.Body.Close()

	saved, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken, "refreshed token is persisted")
}
