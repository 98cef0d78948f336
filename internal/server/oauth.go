package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var (
	errStateMismatch = errors.New("state parameter mismatch")
	errNoCode        = errors.New("no authorization code")
)

// OAuthResult is the outcome of one authorization attempt.
type OAuthResult struct {
	Token *oauth2.Token
	Err   error
}

// OAuthHandler completes the authorization-code flow on the redirect URI's path.
//
// Only the first callback carrying the expected state is processed. Requests with a
// different state get 400 and leave the handler waiting.
type OAuthHandler struct {
	config   *oauth2.Config
	provider string
	state    string
	path     string
	results  chan OAuthResult
	once     sync.Once
	mu       sync.Mutex
	handled  bool
}

// NewOAuthHandler creates a handler with a fresh random state token.
// The callback path is taken from config.RedirectURL, defaulting to /callback.
func NewOAuthHandler(provider string, config *oauth2.Config) *OAuthHandler {
	path := "/callback"
	if u, err := url.Parse(config.RedirectURL); err == nil && u.Path != "" {
		path = u.Path
	}
	return &OAuthHandler{
		config:   config,
		provider: provider,
		state:    uuid.NewString(),
		path:     path,
		results:  make(chan OAuthResult, 1),
	}
}

func (h *OAuthHandler) Routes() []string {
	return []string{"GET " + h.path}
}

// State returns the CSRF token sent with the consent URL.
func (h *OAuthHandler) State() string { return h.state }

// AuthCodeURL returns the consent page URL. Offline access is requested so a refresh token is issued.
func (h *OAuthHandler) AuthCodeURL() string {
	return h.config.AuthCodeURL(h.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("state") != h.state {
		http.Error(w, errStateMismatch.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.handled = true
	h.mu.Unlock()

	code := q.Get("code")
	if code == "" {
		err := errNoCode
		if reason := q.Get("error"); reason != "" {
			err = fmt.Errorf("%w: %s %s", errNoCode, reason, q.Get("error_description"))
		}
		h.send(OAuthResult{Err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.send(OAuthResult{Err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(OAuthResult{Token: token})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = successPage.Execute(w, h.provider)
}

func (h *OAuthHandler) send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result receives exactly one result and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head><title>ytsync</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; display: flex; align-items: center;
       justify-content: center; height: 100vh; margin: 0; background: #f5f5f5; }
.box { text-align: center; background: white; padding: 2rem; border-radius: 8px; }
h1 { color: #c4302b; margin: 0 0 1rem 0; }
</style>
</head>
<body><div class="box">
<h1>{{.}} connected</h1>
<p>You can close this window and return to the terminal.</p>
</div></body>
</html>
`))
