package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/cache"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/desertthunder/ytsync/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// PickFunc chooses playlists interactively.
type PickFunc func(ctx context.Context, load ui.Loader) ([]models.SourcePlaylist, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Caches and clients are built on first use from the loaded config unless injected through [RunnerOpts].
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	logs       *muteWriter
	output     io.Writer
	httpClient *http.Client
	caches     *cache.Pair
	source     tasks.Source
	dest       tasks.Destination
	recorder   tasks.RunRecorder
	pick       PickFunc
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Logger      *log.Logger
	Output      io.Writer
	HTTPClient  *http.Client // base transport for OAuth clients
	Caches      *cache.Pair
	Source      tasks.Source
	Destination tasks.Destination
	Recorder    tasks.RunRecorder
	Pick        PickFunc
	OpenURL     func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	logs := &muteWriter{w: os.Stderr}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(logs)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Pick == nil {
		opts.Pick = func(ctx context.Context, load ui.Loader) ([]models.SourcePlaylist, error) {
			return ui.Pick(ctx, load)
		}
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		logs:       logs,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
		caches:     opts.Caches,
		source:     opts.Source,
		dest:       opts.Destination,
		recorder:   opts.Recorder,
		pick:       opts.Pick,
		openURL:    opts.OpenURL,
	}
}

// before loads configuration once global flags are parsed.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := loadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}
	if err := r.config.ApplyEnv(cmd.String("env")); err != nil {
		return ctx, err
	}

	r.logger.SetLevel(r.config.LogLevel())
	if cmd.Bool("verbose") {
		r.logger.SetLevel(log.DebugLevel)
	}
	return ctx, nil
}

func (r *Runner) after(context.Context, *cli.Command) error {
	return r.Close()
}

// loadConfig reads path, falling back to defaults when it does not exist.
func loadConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return shared.DefaultConfig(), nil
	}
	return shared.LoadConfig(path)
}

// Close releases cache connections.
func (r *Runner) Close() error {
	if r.caches == nil {
		return nil
	}
	if _, ok := r.recorder.(*repositories.SyncRunRepository); ok {
		r.recorder = nil
	}
	err := r.caches.Close()
	r.caches = nil
	return err
}

func (r *Runner) ensureCaches(ctx context.Context) (*cache.Pair, error) {
	if r.caches != nil {
		return r.caches, nil
	}

	pair, err := cache.Open(ctx, r.config)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("cache opened", "backend", r.config.Cache.Backend)
	r.caches = pair
	return pair, nil
}

// ensureClients builds the recorder and both service clients that were not injected.
func (r *Runner) ensureClients(ctx context.Context) error {
	pair, err := r.ensureCaches(ctx)
	if err != nil {
		return err
	}
	if r.recorder == nil && pair.DB() != nil {
		r.recorder = repositories.NewSyncRunRepository(pair.DB())
	}

	octx := context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	if r.source == nil {
		creds := r.config.Credentials.Spotify
		client, err := services.AuthorizedClient(octx, services.SpotifyOAuthConfig(creds), creds.TokenFile, r.logger)
		if err != nil {
			return fmt.Errorf("spotify: %w", err)
		}
		r.source = services.NewSpotifySource(services.SpotifyOpts{
			HTTPClient:        client,
			Cache:             pair.Spotify,
			Logger:            r.logger,
			OwnedOnly:         r.config.Sync.OwnedOnly,
			RequestsPerSecond: r.config.Sync.RequestsPerSecond,
		})
	}

	if r.dest == nil {
		creds := r.config.Credentials.YouTube
		client, err := services.AuthorizedClient(octx, services.YouTubeOAuthConfig(creds), creds.TokenFile, r.logger)
		if err != nil {
			return fmt.Errorf("youtube: %w", err)
		}
		dest, err := services.NewYouTubeDestination(ctx, services.YouTubeOpts{
			HTTPClient:   client,
			Cache:        pair.YouTube,
			Logger:       r.logger,
			SearchSuffix: r.config.Sync.SearchSuffix,
			DailyQuota:   r.config.Sync.DailyQuota,
		})
		if err != nil {
			return err
		}
		r.dest = dest
	}
	return nil
}

func (r *Runner) engine(ctx context.Context) (*tasks.Engine, error) {
	if err := r.ensureClients(ctx); err != nil {
		return nil, err
	}
	return tasks.NewEngine(tasks.EngineOpts{
		Source:      r.source,
		Destination: r.dest,
		Logger:      r.logger,
		Recorder:    r.recorder,
	}), nil
}

// muteWriter drops log output while the picker owns the terminal.
type muteWriter struct {
	w     io.Writer
	muted atomic.Bool
}

func (m *muteWriter) Write(p []byte) (int, error) {
	if m.muted.Load() {
		return len(p), nil
	}
	return m.w.Write(p)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
