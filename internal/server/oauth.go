package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultCallbackPath is where the remote service redirects after Google sign-in.
const DefaultCallbackPath = "/auth/google/callback"

// OAuthResult contains the result of a Google sign-in.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler receives the redirect that ends a Google sign-in.
//
// The remote service completes the Google exchange itself and redirects to the callback with the issued
// bearer credential in the token query parameter. Implements the [Handler] interface.
type OAuthHandler struct {
	path        string
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a handler serving path, or [DefaultCallbackPath] when path is empty.
func NewOAuthHandler(path string) *OAuthHandler {
	if path == "" {
		path = DefaultCallbackPath
	}
	return &OAuthHandler{
		path:       path,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP consumes the token query parameter and reports it through [OAuthHandler.Result].
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	token := r.URL.Query().Get("token")
	if token == "" {
		reason := r.URL.Query().Get("error")
		if reason == "" {
			reason = "no token in callback"
		}
		h.Send(OAuthResult{err: fmt.Errorf("google sign-in failed: %s", reason)})
		writePage(w, http.StatusBadRequest, "Sign-in Failed", "Google sign-in failed. Return to the terminal and log in with your email and password.")
		return
	}

	h.Send(OAuthResult{Token: &oauth2.Token{AccessToken: token, TokenType: "Bearer"}})
	writePage(w, http.StatusOK, "✓ Sign-in Successful", "You can close this window and return to the terminal.")
}

// Send sends the result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving sign-in completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

func writePage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #0c1015; }
        .container { text-align: center; background: #1a1f25; color: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.4); }
        h1 { color: #ff7a18; margin: 0 0 1rem 0; }
        p { color: #bbb; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%[1]s</h1>
        <p>%[2]s</p>
    </div>
</body>
</html>
`, title, body)
}
