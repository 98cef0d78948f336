package services

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/cache"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	youtubePageSize     = 50
	defaultSearchSuffix = "music video"
	playlistDescription = "Synced from Spotify by ytsync"
	playlistPrivacy     = "private"
)

// YouTubeOpts configures a [YouTubeDestination].
type YouTubeOpts struct {
	HTTPClient   *http.Client // authorized client, see [AuthorizedClient]
	Cache        cache.Store
	Logger       *log.Logger
	SearchSuffix string
	DailyQuota   int
	Endpoint     string // overrides the API root, mostly for tests
}

// YouTubeDestination is the destination client.
//
// Once a call reports quota exhaustion every later call returns the same condition without
// issuing a request.
type YouTubeDestination struct {
	svc       *youtube.Service
	cache     cache.Store
	logger    *log.Logger
	meter     *QuotaMeter
	suffix    string
	exhausted error
}

func NewYouTubeDestination(ctx context.Context, opts YouTubeOpts) (*YouTubeDestination, error) {
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("%w: youtube client requires an authorized HTTP client", shared.ErrNotAuthenticated)
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.SearchSuffix == "" {
		opts.SearchSuffix = defaultSearchSuffix
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(opts.HTTPClient)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	logger := opts.Logger.WithPrefix("youtube")
	return &YouTubeDestination{
		svc:    svc,
		cache:  opts.Cache,
		logger: logger,
		meter:  NewQuotaMeter(opts.DailyQuota, logger),
		suffix: opts.SearchSuffix,
	}, nil
}

// QuotaCost returns the cumulative quota charged by this client.
func (d *YouTubeDestination) QuotaCost() int { return d.meter.Used() }

// classify turns a request error into the quota condition or a wrapped API error.
func (d *YouTubeDestination) classify(op string, err error) (quota bool, wrapped error) {
	if IsQuotaExceeded(err) {
		d.exhausted = fmt.Errorf("%w: %s: %v", shared.ErrQuotaExceeded, op, err)
		d.logger.Error("quota exceeded", "op", op, "used", d.meter.Used())
		return true, d.exhausted
	}
	return false, fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
}

// ListPlaylists maps the display name of every playlist of the authenticated channel to its id.
//
// Any API or transport error is unrecoverable and wraps [shared.ErrDestinationUnavailable].
// A page that repeats an earlier page token ends pagination with what was collected.
func (d *YouTubeDestination) ListPlaylists(ctx context.Context) models.Result[map[string]string] {
	if d.exhausted != nil {
		return models.QuotaExceeded[map[string]string](d.exhausted)
	}

	byName := make(map[string]string)
	seen := map[string]bool{}
	token := ""
	for {
		call := d.svc.Playlists.List([]string{"snippet"}).Mine(true).MaxResults(youtubePageSize).Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}

		d.meter.Charge("playlists.list", CostPlaylistsList)
		resp, err := call.Do()
		if err != nil {
			if quota, wrapped := d.classify("playlists.list", err); quota {
				return models.QuotaExceeded[map[string]string](wrapped)
			}
			err = fmt.Errorf("%w: %v", shared.ErrDestinationUnavailable, err)
			d.logger.Error("failed to list playlists", "error", err)
			return models.Soft(byName, err)
		}

		for _, p := range resp.Items {
			if p.Snippet == nil {
				d.logger.Warn("playlist without snippet", "id", p.Id)
				continue
			}
			if _, dup := byName[p.Snippet.Title]; dup {
				d.logger.Warn("duplicate playlist name, keeping first", "name", p.Snippet.Title, "id", p.Id)
				continue
			}
			byName[p.Snippet.Title] = p.Id
		}

		if resp.NextPageToken == "" {
			break
		}
		if seen[resp.NextPageToken] {
			d.logger.Warn("page token repeated, stopping pagination", "token", resp.NextPageToken)
			break
		}
		seen[resp.NextPageToken] = true
		token = resp.NextPageToken
	}

	d.logger.Info("listed playlists", "count", len(byName))
	return models.OK(byName)
}

// GetPlaylistItems returns the video ids already in a playlist.
//
// Non-quota errors end pagination and yield a soft failure carrying the ids collected so far,
// which are not cached.
func (d *YouTubeDestination) GetPlaylistItems(ctx context.Context, playlistID string) models.Result[[]string] {
	if ids, ok := cachedLookup[[]string](ctx, d.logger, d.cache, playlistID); ok {
		return models.OK(ids)
	}
	if d.exhausted != nil {
		return models.QuotaExceeded[[]string](d.exhausted)
	}

	ids := []string{}
	token := ""
	for {
		call := d.svc.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(youtubePageSize).
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}

		d.meter.Charge("playlistItems.list", CostPlaylistItemsList)
		resp, err := call.Do()
		if err != nil {
			quota, wrapped := d.classify("playlistItems.list", err)
			if quota {
				return models.QuotaExceeded[[]string](wrapped)
			}
			d.logger.Warn("stopped listing playlist items", "playlist", playlistID, "collected", len(ids), "error", wrapped)
			return models.Soft(ids, wrapped)
		}

		for _, item := range resp.Items {
			if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}

		if resp.NextPageToken == "" || resp.NextPageToken == token {
			break
		}
		token = resp.NextPageToken
	}

	if err := cache.PutJSON(ctx, d.cache, playlistID, ids); err != nil {
		d.logger.Warn("failed to cache playlist items", "playlist", playlistID, "error", err)
	}
	return models.OK(ids)
}

// CreatePlaylist creates a private playlist named name.
func (d *YouTubeDestination) CreatePlaylist(ctx context.Context, name string) models.Result[models.DestinationPlaylist] {
	if d.exhausted != nil {
		return models.QuotaExceeded[models.DestinationPlaylist](d.exhausted)
	}

	playlist := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{Title: name, Description: playlistDescription},
		Status:  &youtube.PlaylistStatus{PrivacyStatus: playlistPrivacy},
	}

	d.meter.Charge("playlists.insert", CostPlaylistsInsert)
	resp, err := d.svc.Playlists.Insert([]string{"snippet", "status"}, playlist).Context(ctx).Do()
	if err != nil {
		quota, wrapped := d.classify("playlists.insert", err)
		if quota {
			return models.QuotaExceeded[models.DestinationPlaylist](wrapped)
		}
		d.logger.Error("failed to create playlist", "name", name, "error", wrapped)
		return models.Soft(models.DestinationPlaylist{}, wrapped)
	}
	if resp.Id == "" {
		err := fmt.Errorf("%w: playlists.insert returned no id for %q", shared.ErrAPIRequest, name)
		d.logger.Error("failed to create playlist", "name", name, "error", err)
		return models.Soft(models.DestinationPlaylist{}, err)
	}

	d.logger.Info("created playlist", "name", name, "id", resp.Id)
	return models.OK(models.DestinationPlaylist{ID: resp.Id, Name: name})
}

// SearchVideo runs a single-result video search for query. Responses with at least one result
// are cached under the exact query.
func (d *YouTubeDestination) SearchVideo(ctx context.Context, query string) models.Result[*youtube.SearchListResponse] {
	if resp, ok := cachedLookup[*youtube.SearchListResponse](ctx, d.logger, d.cache, query); ok && resp != nil {
		return models.OK(resp)
	}
	if d.exhausted != nil {
		return models.QuotaExceeded[*youtube.SearchListResponse](d.exhausted)
	}

	d.meter.Charge("search.list", CostSearch)
	resp, err := d.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		quota, wrapped := d.classify("search.list", err)
		if quota {
			return models.QuotaExceeded[*youtube.SearchListResponse](wrapped)
		}
		d.logger.Warn("search failed", "query", query, "error", wrapped)
		return models.Soft[*youtube.SearchListResponse](nil, wrapped)
	}

	if len(resp.Items) > 0 {
		if err := cache.PutJSON(ctx, d.cache, query, resp); err != nil {
			d.logger.Warn("failed to cache search", "query", query, "error", err)
		}
	}
	return models.OK(resp)
}

// ResolveVideoID searches for track with the configured suffix and returns the first video id.
// No result is a soft failure wrapping [shared.ErrNoMatch].
func (d *YouTubeDestination) ResolveVideoID(ctx context.Context, track models.Track) models.Result[string] {
	query := track.SearchQuery(d.suffix)
	res := d.SearchVideo(ctx, query)
	if !res.IsOK() {
		return models.Result[string]{Status: res.Status, Err: res.Err}
	}

	for _, item := range res.Value.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			return models.OK(item.Id.VideoId)
		}
	}
	return models.Soft("", fmt.Errorf("%w: %q", shared.ErrNoMatch, query))
}

// AddItem appends videoID to a playlist, returns the new item's id, and extends that playlist's
// cached item list.
func (d *YouTubeDestination) AddItem(ctx context.Context, playlistID, videoID string) models.Result[string] {
	if d.exhausted != nil {
		return models.QuotaExceeded[string](d.exhausted)
	}

	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
	}

	d.meter.Charge("playlistItems.insert", CostPlaylistItemsAdd)
	resp, err := d.svc.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do()
	if err != nil {
		quota, wrapped := d.classify("playlistItems.insert", err)
		if quota {
			return models.QuotaExceeded[string](wrapped)
		}
		d.logger.Warn("failed to add item", "playlist", playlistID, "video", videoID, "error", wrapped)
		return models.Soft("", wrapped)
	}

	d.rememberItem(ctx, playlistID, videoID)
	return models.OK(resp.Id)
}

func (d *YouTubeDestination) rememberItem(ctx context.Context, playlistID, videoID string) {
	ids, ok, err := cache.GetJSON[[]string](ctx, d.cache, playlistID)
	if err != nil || !ok || slices.Contains(ids, videoID) {
		return
	}
	if err := cache.PutJSON(ctx, d.cache, playlistID, append(ids, videoID)); err != nil {
		d.logger.Warn("failed to update cached playlist items", "playlist", playlistID, "error", err)
	}
}
