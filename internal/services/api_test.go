package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/hokage/internal/shared"
	tu "github.com/desertthunder/hokage/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.BaseURL() != defaultBaseURL {
				t.Errorf("expected default baseURL %q, got %s", defaultBaseURL, srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/anime" {
					t.Errorf("expected path '/anime', got %s", r.URL.Path)
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Error("expected X-Request-ID header")
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"status": "success"})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/anime", "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON {
				t.Error("expected response to be JSON")
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/", "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text" {
				t.Errorf("expected body 'plain text', got %s", resp.Body)
			}
		})

		t.Run("Sends Bearer Token", func(t *testing.T) {
			var auth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				w.Write([]byte("{}"))
			}))
			defer server.Close()

			if _, err := NewAPIService(server.URL, nil).Get(context.Background(), "/user", "tok"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if auth != "Bearer tok" {
				t.Errorf("expected 'Bearer tok', got %q", auth)
			}
		})

		t.Run("Request Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/", "")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Response Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/", "")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read failure, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %s", ct)
			}
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			w.Write(body)
		}))
		defer server.Close()

		resp, err := NewAPIService(server.URL, nil).Post(context.Background(), "/login", "", []byte(`{"email":"a@b.c"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}
		if string(resp.Body) != `{"email":"a@b.c"}` {
			t.Errorf("expected echoed body, got %s", resp.Body)
		}
	})
}

func TestAPIError(t *testing.T) {
	t.Run("Unwraps To Remote Rejection", func(t *testing.T) {
		err := error(&APIError{Status: http.StatusBadRequest, Message: "Invalid code"})
		if !errors.Is(err, shared.ErrRemoteRejection) {
			t.Error("expected APIError to match ErrRemoteRejection")
		}
		if err.Error() != "request failed (400): Invalid code" {
			t.Errorf("unexpected error string %q", err.Error())
		}
	})

	t.Run("MessageOr", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want string
		}{
			{"server message", &APIError{Status: 400, Message: "User exists"}, "User exists"},
			{"wrapped server message", errors.Join(errors.New("ctx"), &APIError{Status: 400, Message: "nope"}), "nope"},
			{"empty message", &APIError{Status: 500}, "fallback"},
			{"network error", shared.ErrNetwork, "fallback"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := MessageOr(tt.err, "fallback"); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			})
		}
	})

	t.Run("extractMessage", func(t *testing.T) {
		tests := []struct {
			body string
			want string
		}{
			{`{"message":"Invalid credentials"}`, "Invalid credentials"},
			{`{"error":"Unauthorized"}`, "Unauthorized"},
			{`{"other":"x"}`, ""},
			{"Not Found\n", "Not Found"},
			{"", ""},
		}

		for _, tt := range tests {
			if got := extractMessage(strings.NewReader(tt.body)); got != tt.want {
				t.Errorf("extractMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		}
	})
}
