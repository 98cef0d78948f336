package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

var (
	spotifyScopes = []string{
		spotifyauth.ScopePlaylistReadPrivate,
		spotifyauth.ScopePlaylistReadCollaborative,
		spotifyauth.ScopeUserReadPrivate,
	}
	youtubeScopes = []string{youtube.YoutubeScope}
)

// SpotifyOAuthConfig builds the authorization-code config for the Spotify accounts service.
func SpotifyOAuthConfig(c shared.OAuthClientConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
}

// YouTubeOAuthConfig builds the authorization-code config for Google with the YouTube scope.
func YouTubeOAuthConfig(c shared.OAuthClientConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       youtubeScopes,
		Endpoint:     google.Endpoint,
	}
}

// ValidateClient rejects blank or placeholder credentials copied from the example config.
func ValidateClient(service string, c shared.OAuthClientConfig) error {
	for name, v := range map[string]string{"client_id": c.ClientID, "client_secret": c.ClientSecret} {
		if v == "" || strings.HasPrefix(v, "your_") {
			return fmt.Errorf("%w: credentials.%s.%s is not set", shared.ErrMissingCredentials, service, name)
		}
	}
	return nil
}

// LoadToken reads a token previously written by [SaveToken].
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no token at %s, run 'ytsync auth'", shared.ErrNotAuthenticated, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("%w: token file %s is corrupt: %v", shared.ErrNotAuthenticated, path, err)
	}
	return &tok, nil
}

// SaveToken writes tok as JSON readable only by the current user.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// persistingTokenSource saves every token whose access token differs from the last one seen.
type persistingTokenSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	path   string
	last   string
	logger *log.Logger
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if tok.AccessToken != s.last {
		if err := SaveToken(s.path, tok); err != nil {
			s.logger.Warn("failed to persist refreshed token", "path", s.path, "error", err)
		} else {
			s.logger.Debug("persisted refreshed token", "path", s.path)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

// AuthorizedClient loads the token at tokenFile and returns an HTTP client that refreshes it
// through conf, writing refreshed tokens back to tokenFile.
func AuthorizedClient(ctx context.Context, conf *oauth2.Config, tokenFile string, logger *log.Logger) (*http.Client, error) {
	tok, err := LoadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	ts := &persistingTokenSource{
		base:   conf.TokenSource(ctx, tok),
		path:   tokenFile,
		last:   tok.AccessToken,
		logger: logger,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}
