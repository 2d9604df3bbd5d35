package ui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hokage/internal/catalog"
	"github.com/desertthunder/hokage/internal/lists"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/repositories"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/session"
	tu "github.com/desertthunder/hokage/internal/testing"
	"github.com/desertthunder/hokage/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	api    *tu.FakeAPI
	store  *repositories.MemoryStore
	model  *Model
	opened []string
}

func newHarness(t *testing.T, token string) *harness {
	t.Helper()
	ctx := context.Background()

	api := tu.NewFakeAPI(t)
	api.Catalog = []models.CatalogEntry{
		{ID: "a1", Title: "Naruto", Description: "Ninja", EmbedURL: "https://youtube.com/embed/1"},
		{ID: "a2", Title: "Bleach", Description: "Soul reaper", EmbedURL: "https://youtube.com/embed/2"},
	}

	store := repositories.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.SetToken(ctx, token))
	}

	client := services.NewAPIService(api.URL, nil)
	resolver := session.NewResolver(store, nil)
	broadcaster, err := theme.New(ctx, store)
	require.NoError(t, err)

	h := &harness{api: api, store: store}
	h.model = NewModel(ctx, Deps{
		Gate:   session.NewGate(resolver, nil),
		Cache:  catalog.New(client, store.Token, nil),
		Remote: client,
		Token:  store.Token,
		Theme:  broadcaster,
		Open:   func(url string) error { h.opened = append(h.opened, url); return nil },
	})
	t.Cleanup(h.model.Close)
	return h
}

// run executes cmd and feeds every resulting message back into the model until no command remains.
func (h *harness) run(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				h.run(c)
			}
			return
		}
		if msg == nil {
			return
		}
		_, cmd = h.model.Update(msg)
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func (h *harness) press(r rune) {
	_, cmd := h.model.Update(keyPress(r))
	h.run(cmd)
}

func TestModelDegradedViews(t *testing.T) {
	h := newHarness(t, "")

	h.press('2')
	assert.Equal(t, FavouritesView, h.model.view)
	assert.Equal(t, session.Degraded, h.model.state)
	assert.Contains(t, h.model.View(), session.DegradedMessage)

	h.press('x')
	h.press('3')
	assert.Contains(t, h.model.View(), session.DegradedMessage)

	assert.Zero(t, h.api.Count(http.MethodGet, "/favourite_anime"))
	assert.Zero(t, h.api.Count(http.MethodGet, "/watch_later"))
	assert.Zero(t, h.api.Count(http.MethodDelete, "/"))
}

func TestModelCatalog(t *testing.T) {
	t.Run("Guest Cannot Save", func(t *testing.T) {
		h := newHarness(t, "")
		h.run(h.model.enter(CatalogView))

		require.Len(t, h.model.catalogList.Items(), 2)
		assert.Equal(t, session.Unauthenticated, h.model.state)

		h.press('f')
		assert.True(t, h.model.statusErr)
		assert.Contains(t, h.model.status, "Please log in")
		assert.Zero(t, h.api.Count(http.MethodPost, "/favourite_anime"))
	})

	t.Run("Toggle Favourite", func(t *testing.T) {
		h := newHarness(t, tu.SignedToken(t, "u1", time.Hour))
		h.run(h.model.enter(CatalogView))
		require.Equal(t, session.Authenticated, h.model.state)

		h.press('f')
		assert.Equal(t, "Added to Favourite Anime", h.model.status)
		assert.True(t, h.model.deps.Cache.IsMember(models.Favourites, "a1"))

		item := h.model.catalogList.Items()[0].(entryItem)
		assert.True(t, item.favourite)
		assert.True(t, strings.HasSuffix(item.Title(), "♥"))
		assert.Equal(t, 1, h.api.Count(http.MethodPost, "/favourite_anime"))
	})

	t.Run("Pending Toggle Is Rendered", func(t *testing.T) {
		h := newHarness(t, tu.SignedToken(t, "u1", time.Hour))
		h.run(h.model.enter(CatalogView))
		release := h.api.Hold()
		defer release()

		_, cmd := h.model.Update(keyPress('f'))
		_, commit := h.model.Update(cmd())

		item := h.model.catalogList.Items()[0].(entryItem)
		assert.True(t, item.favourite)
		assert.True(t, item.busy)
		assert.Equal(t, "Naruto ♥ …", item.Title())
		assert.Zero(t, h.api.Count(http.MethodPost, "/favourite_anime"))

		release()
		h.run(commit)

		item = h.model.catalogList.Items()[0].(entryItem)
		assert.True(t, item.favourite)
		assert.False(t, item.busy)
		assert.Equal(t, "Added to Favourite Anime", h.model.status)
		assert.Equal(t, 1, h.api.Count(http.MethodPost, "/favourite_anime"))
	})

	t.Run("Failed Toggle Is Reverted", func(t *testing.T) {
		h := newHarness(t, tu.SignedToken(t, "u1", time.Hour))
		h.api.Fail("POST /watch_later", http.StatusInternalServerError, "db down")
		h.run(h.model.enter(CatalogView))

		h.press('w')
		assert.True(t, h.model.statusErr)
		assert.False(t, h.model.deps.Cache.IsMember(models.WatchLater, "a1"))
		assert.False(t, h.model.catalogList.Items()[0].(entryItem).watchLater)
	})

	t.Run("Open Entry", func(t *testing.T) {
		h := newHarness(t, "")
		h.run(h.model.enter(CatalogView))

		_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		h.run(cmd)
		assert.Equal(t, []string{"https://youtube.com/embed/1"}, h.opened)
	})
}

func TestModelSavedList(t *testing.T) {
	h := newHarness(t, tu.SignedToken(t, "u1", time.Hour))
	h.api.Lists["favourite_anime"] = []map[string]any{
		{"_id": "a1", "title": "Naruto"},
		{"_id": "a2", "title": "Bleach"},
	}

	h.press('2')
	require.Equal(t, session.Authenticated, h.model.state)
	require.Len(t, h.model.savedList.Items(), 2)

	h.press('x')
	assert.Equal(t, "Removed from Favourite Anime", h.model.status)
	assert.Len(t, h.model.savedList.Items(), 1)
	assert.Equal(t, 1, h.api.Count(http.MethodDelete, "/favourite_anime/a1"))
}

func TestModelTheme(t *testing.T) {
	t.Run("Toggle", func(t *testing.T) {
		h := newHarness(t, "")
		require.Same(t, darkPalette, h.model.palette)

		h.press('t')
		stored, _ := h.store.Theme(context.Background())
		assert.Equal(t, "light", stored)

		msg := h.model.waitForTheme()()
		_, _ = h.model.Update(msg)
		assert.Same(t, lightPalette, h.model.palette)
	})

	t.Run("Burst Of Toggles", func(t *testing.T) {
		h := newHarness(t, "")
		ctx := context.Background()

		for range 5 {
			require.NoError(t, h.model.deps.Theme.Toggle(ctx))
		}
		require.False(t, h.model.deps.Theme.IsDark())

		_, _ = h.model.Update(h.model.waitForTheme()())
		assert.Same(t, lightPalette, h.model.palette)

		select {
		case <-h.model.themeCh:
			t.Fatal("expected toggles to coalesce into one wake-up")
		default:
		}
	})
}

func TestModelSettings(t *testing.T) {
	h := newHarness(t, "")
	h.press('4')

	h.press('a')
	h.press('s')
	h.press('v')
	assert.False(t, h.model.prefs.Autoplay)
	assert.Equal(t, "Japanese", h.model.prefs.Subtitles)
	assert.Equal(t, "1080p", h.model.prefs.Quality)
	assert.Contains(t, h.model.View(), "Settings")
}

func TestSubstringFilter(t *testing.T) {
	targets := []string{"Ninja Naruto", "Soul reaper Bleach", "Pirates One Piece"}

	ranks := substringFilter("EA", targets)
	require.Len(t, ranks, 1)
	assert.Equal(t, 1, ranks[0].Index)
	assert.Equal(t, []int{6, 7}, ranks[0].MatchedIndexes)

	assert.Len(t, substringFilter("", targets), 3)
	assert.Empty(t, substringFilter("zzz", targets))
}

func TestOutcomeStatus(t *testing.T) {
	h := newHarness(t, "")
	h.model.reportChange(models.WatchLater, lists.OutcomeRemoved, nil)
	assert.Equal(t, "Removed from Watch Later", h.model.status)
}
