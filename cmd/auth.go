package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/desertthunder/ytsync/internal/server"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const (
	serviceSpotify = "spotify"
	serviceYouTube = "youtube"
)

// oauthClient returns the configured credentials and OAuth config for service.
func (r *Runner) oauthClient(service string) (shared.OAuthClientConfig, *oauth2.Config, string) {
	switch service {
	case serviceSpotify:
		creds := r.config.Credentials.Spotify
		return creds, services.SpotifyOAuthConfig(creds), "Spotify"
	default:
		creds := r.config.Credentials.YouTube
		return creds, services.YouTubeOAuthConfig(creds), "YouTube"
	}
}

// Auth performs the authorization-code flow for service and persists the token.
//
// Starts a local callback server, opens the consent page and waits for the redirect.
func (r *Runner) Auth(service string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		creds, conf, label := r.oauthClient(service)
		if err := services.ValidateClient(service, creds); err != nil {
			return err
		}
		if creds.TokenFile == "" {
			return fmt.Errorf("%w: credentials.%s.token_file is not set", shared.ErrMissingConfig, service)
		}

		handler := server.NewOAuthHandler(label, conf)
		addr := net.JoinHostPort(r.config.Server.Host, strconv.Itoa(r.config.Server.Port))
		srv, err := server.StartCallbackServer(addr, handler, r.logger)
		if err != nil {
			return err
		}

		url := handler.AuthCodeURL()
		if err := r.writePlain("Authorize ytsync for %s:\n\n  %s\n\n", label, url); err != nil {
			srv.Shutdown()
			return err
		}
		if !cmd.Bool("no-browser") {
			if err := r.openURL(url); err != nil {
				r.logger.Warn("could not open browser, open the URL manually", "error", err)
			}
		}

		wctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
		defer cancel()

		r.logger.Info("waiting for OAuth callback", "addr", srv.Addr(), "service", service)
		res, err := srv.Wait(wctx)
		if err != nil {
			return err
		}

		if err := services.SaveToken(creds.TokenFile, res.Token); err != nil {
			return err
		}
		r.logger.Info("token saved", "service", service, "path", creds.TokenFile)
		return r.writePlain("✓ %s authorized, token saved to %s\n", label, creds.TokenFile)
	}
}
