package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/shared"
	tu "github.com/desertthunder/hokage/internal/testing"
)

func TestHokageEndpoints(t *testing.T) {
	ctx := context.Background()
	entry := models.CatalogEntry{ID: "a1", Title: "Naruto", Description: "Ninja", EmbedURL: "https://youtube.com/embed/x"}

	t.Run("Catalog", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		api.Catalog = []models.CatalogEntry{entry}

		entries, err := NewAPIService(api.URL, nil).Catalog(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 1 || entries[0] != entry {
			t.Errorf("unexpected entries %+v", entries)
		}
		if reqs := api.Requests(); reqs[0].Auth != "" {
			t.Errorf("expected anonymous request, got Authorization %q", reqs[0].Auth)
		}
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Returns Token", func(t *testing.T) {
			api := tu.NewFakeAPI(t)
			api.Token = "abc"

			tok, err := NewAPIService(api.URL, nil).Login(ctx, "a@b.c", "secret")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tok != "abc" {
				t.Errorf("expected token 'abc', got %q", tok)
			}
			body := api.Requests()[0].Body
			if body["email"] != "a@b.c" || body["password"] != "secret" {
				t.Errorf("unexpected login body %v", body)
			}
		})

		t.Run("Rejected", func(t *testing.T) {
			api := tu.NewFakeAPI(t)
			api.Fail("POST /login", http.StatusUnauthorized, "Invalid credentials")

			_, err := NewAPIService(api.URL, nil).Login(ctx, "a@b.c", "wrong")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid credentials" {
				t.Errorf("unexpected APIError %+v", apiErr)
			}
		})
	})

	t.Run("Profile Sends Bearer", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		api.Profile = models.Profile{Name: "Itachi", Email: "i@u.ch", GoogleID: "g-1"}

		profile, err := NewAPIService(api.URL, nil).Profile(ctx, "tok")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !profile.IsGoogleUser() || profile.Name != "Itachi" {
			t.Errorf("unexpected profile %+v", profile)
		}
		if auth := api.Requests()[0].Auth; auth != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", auth)
		}
	})

	t.Run("Lists", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		srv := NewAPIService(api.URL, nil)

		if err := srv.AddToList(ctx, models.WatchLater, "tok", "u1", entry); err != nil {
			t.Fatalf("expected no error adding, got %v", err)
		}
		add := api.Requests()[0]
		if add.Method != http.MethodPost || add.Path != "/watch_later" {
			t.Errorf("unexpected add request %s %s", add.Method, add.Path)
		}
		if add.Body["userId"] != "u1" || add.Body["animeId"] != "a1" || add.Body["youtubeEmbedUrl"] != entry.EmbedURL {
			t.Errorf("unexpected add body %v", add.Body)
		}

		saved, err := srv.ListEntries(ctx, models.WatchLater, "tok", "u1")
		if err != nil {
			t.Fatalf("expected no error listing, got %v", err)
		}
		if len(saved) != 1 || saved[0].EntryID() != "a1" || saved[0].CatalogEntry() != entry {
			t.Errorf("unexpected saved entries %+v", saved)
		}
		if q := api.Requests()[1].Query; q != "userId=u1" {
			t.Errorf("expected userId query, got %q", q)
		}

		if err := srv.RemoveFromList(ctx, models.WatchLater, "tok", "u1", "a1"); err != nil {
			t.Fatalf("expected no error removing, got %v", err)
		}
		del := api.Requests()[2]
		if del.Method != http.MethodDelete || del.Path != "/watch_later/a1" || del.Body["userId"] != "u1" {
			t.Errorf("unexpected delete request %+v", del)
		}
		if api.Count(http.MethodPost, "/favourite_anime") != 0 {
			t.Error("expected favourites to be untouched")
		}
	})

	t.Run("Recovery", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		srv := NewAPIService(api.URL, nil)

		if err := srv.ForgotPassword(ctx, "a@b.c"); err != nil {
			t.Fatalf("forgot-password: %v", err)
		}
		if err := srv.VerifyResetCode(ctx, "a@b.c", "123456"); err != nil {
			t.Fatalf("verify-reset-code: %v", err)
		}
		if err := srv.ResetPassword(ctx, "a@b.c", "123456", "newpass"); err != nil {
			t.Fatalf("reset-password: %v", err)
		}

		reset := api.Requests()[2].Body
		if reset["email"] != "a@b.c" || reset["code"] != "123456" || reset["newPassword"] != "newpass" {
			t.Errorf("unexpected reset body %v", reset)
		}
	})

	t.Run("Network Failure", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		url := api.URL
		api.Close()

		_, err := NewAPIService(url, nil).Catalog(ctx)
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("GoogleAuthURL", func(t *testing.T) {
		if got := NewAPIService("http://api.test", nil).GoogleAuthURL(); got != "http://api.test/auth/google" {
			t.Errorf("unexpected url %q", got)
		}
	})
}
