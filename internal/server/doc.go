// Package server runs the short-lived local HTTP server that completes OAuth authorization.
//
// # Routing
//
// [BasicRouter] wraps [http.ServeMux] with a [Middleware] stack. Routes are registered with the
// method-qualified patterns understood by the mux ("GET /callback"), so a request with the wrong
// method is answered with 405 by the mux itself.
//
// # Callback flow
//
// `ytsync auth spotify|youtube` builds an [OAuthHandler] for the provider's [oauth2.Config],
// starts a [CallbackServer] on the configured address, and opens the consent page in a browser.
// The handler checks the state parameter, exchanges the code, and delivers exactly one
// [OAuthResult]. [CallbackServer.Wait] returns that result, or an error once its context ends.
package server
