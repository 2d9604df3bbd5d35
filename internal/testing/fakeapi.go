package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/hokage/internal/models"
)

// RecordedRequest is one request observed by [FakeAPI].
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// FakeAPI is an in-process stand-in for the remote catalog/account service.
//
// Fields may be set before the first request. Use Fail to make a route reject with a status and message.
type FakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	Catalog  []models.CatalogEntry
	Profile  models.Profile
	Token    string
	Lists    map[string][]map[string]any
	failures map[string]failure
	requests []RecordedRequest
	gate     chan struct{}
}

type failure struct {
	status  int
	message string
}

// NewFakeAPI starts a fake service and registers its shutdown with t.Cleanup.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		Token:    "fake-token",
		Lists:    map[string][]map[string]any{"favourite_anime": {}, "watch_later": {}},
		failures: map[string]failure{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Fail makes every request whose "METHOD /path" starts with route return status with message.
func (f *FakeAPI) Fail(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = failure{status: status, message: message}
}

// Hold blocks list writes until the returned release func is called.
func (f *FakeAPI) Hold() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many received requests match method and path prefix.
func (f *FakeAPI) Count(method, prefix string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	route := r.Method + " " + r.URL.Path
	for prefix, fail := range f.failures {
		if strings.HasPrefix(route, prefix) {
			f.mu.Unlock()
			writeJSON(w, fail.status, map[string]string{"message": fail.message})
			return
		}
	}
	gate := f.gate
	f.mu.Unlock()

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/anime" && r.Method == http.MethodGet:
		f.mu.Lock()
		catalog := append([]models.CatalogEntry{}, f.Catalog...)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, catalog)
	case r.URL.Path == "/user":
		f.mu.Lock()
		profile := f.Profile
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, profile)
	case r.URL.Path == "/login":
		writeJSON(w, http.StatusOK, map[string]string{"token": f.Token})
	case r.URL.Path == "/register":
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
	case r.URL.Path == "/logout":
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	case segments[0] == "favourite_anime" || segments[0] == "watch_later":
		if gate != nil && r.Method != http.MethodGet {
			<-gate
		}
		f.serveList(w, r, segments, body)
	case r.URL.Path == "/forgot-password", r.URL.Path == "/verify-reset-code",
		r.URL.Path == "/reset-password", r.URL.Path == "/change-password":
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (f *FakeAPI) serveList(w http.ResponseWriter, r *http.Request, segments []string, body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := segments[0]
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, f.Lists[name])
	case http.MethodPost:
		f.Lists[name] = append(f.Lists[name], body)
		writeJSON(w, http.StatusCreated, body)
	case http.MethodDelete:
		if len(segments) < 2 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "missing id"})
			return
		}
		kept := f.Lists[name][:0]
		for _, item := range f.Lists[name] {
			if item["animeId"] != segments[1] && item["_id"] != segments[1] {
				kept = append(kept, item)
			}
		}
		f.Lists[name] = kept
		writeJSON(w, http.StatusOK, map[string]string{"message": "Removed"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
