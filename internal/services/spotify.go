package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/cache"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/samber/lo"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"
)

const spotifyPageSize = 50

// SpotifyOpts configures a [SpotifySource].
type SpotifyOpts struct {
	HTTPClient        *http.Client // authorized client, see [AuthorizedClient]
	Cache             cache.Store
	Logger            *log.Logger
	OwnedOnly         bool
	RequestsPerSecond float64 // zero disables limiting
	BaseURL           string  // overrides the Web API root, mostly for tests
}

// SpotifySource is the source client.
type SpotifySource struct {
	client    *spotify.Client
	cache     cache.Store
	logger    *log.Logger
	limiter   *rate.Limiter
	ownedOnly bool
	queries   int
}

// sourceItem is the cached form of one playlist entry.
type sourceItem struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
}

func NewSpotifySource(opts SpotifyOpts) *SpotifySource {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	var clientOpts []spotify.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(opts.BaseURL))
	}

	return &SpotifySource{
		client:    spotify.New(opts.HTTPClient, clientOpts...),
		cache:     opts.Cache,
		logger:    opts.Logger.WithPrefix("spotify"),
		limiter:   rate.NewLimiter(limit, 1),
		ownedOnly: opts.OwnedOnly,
	}
}

// Queries returns the number of playlist pages fetched from the network.
func (s *SpotifySource) Queries() int { return s.queries }

func playlistsKey(ownedOnly bool) string {
	return fmt.Sprintf("playlists_%t", ownedOnly)
}

// ListOwnedPlaylists returns every playlist of the current user, restricted to those the user owns
// when the source was built with OwnedOnly. Any transport failure yields a soft failure with no playlists.
func (s *SpotifySource) ListOwnedPlaylists(ctx context.Context) models.Result[[]models.SourcePlaylist] {
	key := playlistsKey(s.ownedOnly)
	if cached, ok := cachedLookup[[]models.SourcePlaylist](ctx, s.logger, s.cache, key); ok {
		return models.OK(cached)
	}

	playlists, err := s.fetchPlaylists(ctx)
	if err != nil {
		s.logger.Error("failed to list playlists", "error", err)
		return models.Soft[[]models.SourcePlaylist](nil, err)
	}

	if err := cache.PutJSON(ctx, s.cache, key, playlists); err != nil {
		s.logger.Warn("failed to cache playlists", "error", err)
	}
	return models.OK(playlists)
}

func (s *SpotifySource) fetchPlaylists(ctx context.Context) ([]models.SourcePlaylist, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: current user: %v", shared.ErrAPIRequest, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(spotifyPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: playlists page: %v", shared.ErrAPIRequest, err)
	}

	var playlists []models.SourcePlaylist
	for {
		s.queries++
		for _, p := range page.Playlists {
			if s.ownedOnly && p.Owner.ID != user.ID {
				continue
			}
			playlists = append(playlists, models.SourcePlaylist{ID: p.ID.String(), Name: p.Name, OwnerID: p.Owner.ID})
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		err := s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: playlists page %d: %v", shared.ErrAPIRequest, s.queries+1, err)
		}
	}

	s.logger.Info("listed playlists", "count", len(playlists), "pages", s.queries, "owned_only", s.ownedOnly)
	return playlists, nil
}

// ListPlaylistTracks returns the first page of a playlist's items as display strings.
//
// Episodes and items lacking an artist or a title are dropped with a warning.
func (s *SpotifySource) ListPlaylistTracks(ctx context.Context, playlistID string) models.Result[[]models.Track] {
	items, ok := cachedLookup[[]sourceItem](ctx, s.logger, s.cache, playlistID)
	if !ok {
		fetched, err := s.fetchItems(ctx, playlistID)
		if err != nil {
			s.logger.Error("failed to list tracks", "playlist", playlistID, "error", err)
			return models.Soft[[]models.Track](nil, err)
		}
		if err := cache.PutJSON(ctx, s.cache, playlistID, fetched); err != nil {
			s.logger.Warn("failed to cache tracks", "playlist", playlistID, "error", err)
		}
		items = fetched
	}

	tracks := lo.FilterMap(items, func(item sourceItem, i int) (models.Track, bool) {
		if item.Type == "episode" {
			s.logger.Warn("skipping episode", "playlist", playlistID, "position", i, "name", item.Name)
			return "", false
		}
		track, err := models.NewTrack(item.Artists, item.Name)
		if err != nil {
			s.logger.Warn("skipping incomplete item", "playlist", playlistID, "position", i, "reason", err)
			return "", false
		}
		return track, true
	})
	return models.OK(tracks)
}

func (s *SpotifySource) fetchItems(ctx context.Context, playlistID string) ([]sourceItem, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("%w: playlist items: %v", shared.ErrAPIRequest, err)
	}

	return lo.Map(page.Items, func(item spotify.PlaylistItem, _ int) sourceItem {
		switch {
		case item.Track.Episode != nil:
			return sourceItem{Type: "episode", Name: item.Track.Episode.Name}
		case item.Track.Track != nil:
			t := item.Track.Track
			return sourceItem{
				Type:    "track",
				Name:    t.Name,
				Artists: lo.Map(t.Artists, func(a spotify.SimpleArtist, _ int) string { return a.Name }),
			}
		default:
			return sourceItem{}
		}
	}), nil
}
