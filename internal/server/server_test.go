package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/shared"
)

type routeHandler struct {
	routes []string
	fn     http.HandlerFunc
}

func (h routeHandler) Routes() []string { return h.routes }

func (h routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.fn(w, r) }

func TestCallbackRouter(t *testing.T) {
	t.Run("Mounts Every Route", func(t *testing.T) {
		router := NewCallbackRouter()
		router.Mount(routeHandler{routes: []string{"/a", "/b"}, fn: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.URL.Path))
		}})

		for _, path := range []string{"/a", "/b"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK || rec.Body.String() != path {
				t.Errorf("expected 200 %s, got %d %q", path, rec.Code, rec.Body.String())
			}
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/c", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 for unmounted route, got %d", rec.Code)
		}
	})

	t.Run("Refuses Non-Redirect Methods", func(t *testing.T) {
		called := false
		router := NewCallbackRouter()
		router.Mount(routeHandler{routes: []string{"/cb"}, fn: func(w http.ResponseWriter, r *http.Request) {
			called = true
		}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cb", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != "GET, HEAD" {
			t.Errorf("expected Allow header, got %q", rec.Header().Get("Allow"))
		}
		if called {
			t.Error("expected handler not to be called")
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewCallbackRouter(mark("first"), mark("second"))
		router.Mount(routeHandler{routes: []string{"/"}, fn: func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})

	t.Run("Recoverer", func(t *testing.T) {
		var buf bytes.Buffer
		router := NewCallbackRouter(Recoverer(shared.NewLogger(&buf)))
		router.Mount(routeHandler{routes: []string{"/boom"}, fn: func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "handler panicked") {
			t.Errorf("expected panic to be logged, got %q", buf.String())
		}
	})

	t.Run("RequestLogger Omits Query", func(t *testing.T) {
		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)
		shared.SetLogLevel(logger, log.DebugLevel)

		router := NewCallbackRouter(RequestLogger(logger))
		router.Mount(routeHandler{routes: []string{"/cb"}, fn: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cb?token=secret", nil))

		out := buf.String()
		if !strings.Contains(out, "418") {
			t.Errorf("expected status in log, got %q", out)
		}
		if strings.Contains(out, "secret") {
			t.Errorf("query string leaked into log: %q", out)
		}
	})
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		if got := NewOAuthHandler("").Routes(); len(got) != 1 || got[0] != DefaultCallbackPath {
			t.Errorf("unexpected routes %v", got)
		}
	})

	t.Run("Token Received", func(t *testing.T) {
		h := NewOAuthHandler("/cb")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cb?token=abc", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		result := <-h.Result()
		if result.Error() != nil || result.Token.AccessToken != "abc" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("Missing Token", func(t *testing.T) {
		h := NewOAuthHandler("/cb")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cb", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-h.Result(); result.Error() == nil {
			t.Error("expected error result")
		}
	})

	t.Run("Only Once", func(t *testing.T) {
		h := NewOAuthHandler("/cb")
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cb?token=first", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cb?token=second", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected second callback to be rejected, got %d", rec.Code)
		}
		if result := <-h.Result(); result.Token.AccessToken != "first" {
			t.Errorf("expected first token, got %q", result.Token.AccessToken)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	t.Run("Receives Token", func(t *testing.T) {
		srv, err := StartCallbackServer("127.0.0.1:0", "/auth/google/callback", nil)
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		go func() {
			resp, err := http.Get(srv.URL() + "?token=tok-1")
			if err == nil {
				resp.Body.Close()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		token, err := srv.Wait(ctx)
		if err != nil {
			t.Fatalf("expected token, got %v", err)
		}
		if token.AccessToken != "tok-1" {
			t.Errorf("expected tok-1, got %q", token.AccessToken)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		srv, err := StartCallbackServer("127.0.0.1:0", "", nil)
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := srv.Wait(ctx); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("Failure Result", func(t *testing.T) {
		srv, err := StartCallbackServer("127.0.0.1:0", "/cb", nil)
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		go func() {
			resp, err := http.Get(srv.URL() + "?error=access_denied")
			if err == nil {
				resp.Body.Close()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := srv.Wait(ctx); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
