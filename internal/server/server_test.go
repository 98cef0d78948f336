package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytsync/internal/shared"
	"golang.org/x/oauth2"
)

func tokenEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-1","token_type":"Bearer","refresh_token":"refresh-1","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1:8888/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/authorize",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestOAuthHandler(t *testing.T) {
	tokens := tokenEndpoint(t)

	t.Run("exchanges code for token", func(t *testing.T) {
		h := NewOAuthHandler("Spotify", testConfig(tokens.URL))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=good-code&state="+h.State(), nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Spotify connected") {
			t.Errorf("expected success page, got %s", rec.Body.String())
		}

		res := <-h.Result()
		if res.Err != nil || res.Token.AccessToken != "access-1" || res.Token.RefreshToken != "refresh-1" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("rejects state mismatch without consuming the callback", func(t *testing.T) {
		h := NewOAuthHandler("Spotify", testConfig(tokens.URL))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=good-code&state=forged", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), errStateMismatch.Error()) {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		select {
		case res := <-h.Result():
			t.Fatalf("expected no result after forged callback, got %+v", res)
		default:
		}

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=good-code&state="+h.State(), nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for genuine callback, got %d", rec.Code)
		}
		if res := <-h.Result(); res.Err != nil || res.Token.AccessToken != "access-1" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("reports provider error", func(t *testing.T) {
		h := NewOAuthHandler("YouTube", testConfig(tokens.URL))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied&state="+h.State(), nil))

		res := <-h.Result()
		if !errors.Is(res.Err, errNoCode) || !strings.Contains(res.Err.Error(), "access_denied") {
			t.Errorf("expected access_denied, got %v", res.Err)
		}
	})

	t.Run("failed exchange", func(t *testing.T) {
		h := NewOAuthHandler("YouTube", testConfig(tokens.URL))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=bad&state="+h.State(), nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if res := <-h.Result(); res.Err == nil {
			t.Error("expected exchange error")
		}
	})

	t.Run("only first callback is processed", func(t *testing.T) {
		h := NewOAuthHandler("Spotify", testConfig(tokens.URL))
		url := "/callback?code=good-code&state=" + h.State()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, url, nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replay, got %d", rec.Code)
		}
	})

	t.Run("route follows redirect path", func(t *testing.T) {
		conf := testConfig(tokens.URL)
		conf.RedirectURL = "http://localhost:9000/oauth/youtube"
		h := NewOAuthHandler("YouTube", conf)

		if got := h.Routes(); len(got) != 1 || got[0] != "GET /oauth/youtube" {
			t.Errorf("unexpected routes %v", got)
		}
		if u := h.AuthCodeURL(); !strings.Contains(u, "state="+h.State()) || !strings.Contains(u, "access_type=offline") {
			t.Errorf("unexpected auth url %s", u)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := NewBasicRouter()
	r.Use(tag("outer"), tag("inner"))
	r.Handle("GET /ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Body.String() != "pong" {
		t.Errorf("expected pong, got %q", rec.Body.String())
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("unexpected middleware order %v", order)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestCallbackServer(t *testing.T) {
	tokens := tokenEndpoint(t)

	t.Run("returns token from callback", func(t *testing.T) {
		h := NewOAuthHandler("Spotify", testConfig(tokens.URL))
		cs, err := StartCallbackServer("127.0.0.1:0", h, nil)
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		go func() {
			resp, err := http.Get("http://" + cs.Addr() + "/callback?code=good-code&state=" + h.State())
			if err == nil {
				resp.Body.Close()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := cs.Wait(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Token.AccessToken != "access-1" {
			t.Errorf("unexpected token %+v", res.Token)
		}
	})

	t.Run("times out without callback", func(t *testing.T) {
		h := NewOAuthHandler("Spotify", testConfig(tokens.URL))
		cs, err := StartCallbackServer("127.0.0.1:0", h, nil)
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if _, err := cs.Wait(ctx); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("callback error wraps ErrAuthFailed", func(t *testing.T) {
		h := NewOAuthHandler("Spotify", testConfig(tokens.URL))
		cs, err := StartCallbackServer("127.0.0.1:0", h, nil)
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		go func() {
			resp, err := http.Get("http://" + cs.Addr() + "/callback?error=access_denied&state=" + h.State())
			if err == nil {
				resp.Body.Close()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := cs.Wait(ctx); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
