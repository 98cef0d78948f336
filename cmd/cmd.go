// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "ytsync",
		Usage:   "One-way sync of Spotify playlists into YouTube playlists",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to a .env file with credential overrides",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log at debug level, including sync progress",
			},
		},
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, syncCommand, cacheCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// setupCommand writes the config file and prepares the cache backend.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and prepare the cache backend",
		Action: r.Setup,
	}
}

// authCommand runs the OAuth flow for either service.
func authCommand(r *Runner) *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the browser callback",
				Value: 5 * time.Minute,
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL without opening a browser",
			},
		}
	}
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize ytsync against Spotify or YouTube",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authorize read access to your Spotify playlists",
				Flags:  flags(),
				Action: r.Auth(serviceSpotify),
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Authorize playlist management on your YouTube channel",
				Flags:   flags(),
				Action:  r.Auth(serviceYouTube),
			},
		},
	}
}

// playlistsCommand lists source playlists and whether each exists on YouTube.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List your Spotify playlists and whether each exists on YouTube",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Playlists,
	}
}

// syncCommand runs the reconciliation.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Create missing YouTube playlists and add missing videos",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Exact Spotify playlist name to sync (repeatable)",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Sync every owned playlist",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Pick playlists in a terminal UI",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a run report; format follows the extension (.md, .csv, .json, else text)",
			},
		},
		Action: r.Sync,
	}
}

// cacheCommand inspects and clears the lookup caches.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the lookup caches",
		Commands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Delete cached lookups",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "service",
						Usage: "Cache to clear: spotify, youtube or all",
					},
				},
				Action: r.CacheClear,
			},
			{
				Name:  "stats",
				Usage: "Show cache entry counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.CacheStats,
			},
		},
	}
}

// historyCommand lists recorded runs (sqlite backend only).
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent sync runs recorded in the sqlite database",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of runs to show",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.History,
	}
}
