package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu         sync.Mutex
	entries    []models.CatalogEntry
	lists      map[models.ListKind][]services.SavedEntry
	catalogErr error
	listErr    map[models.ListKind]error
	listCalls  int
	tokens     []string
}

func (f *fakeSource) Catalog(context.Context) ([]models.CatalogEntry, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.entries, nil
}

func (f *fakeSource) ListEntries(_ context.Context, kind models.ListKind, token, _ string) ([]services.SavedEntry, error) {
	f.mu.Lock()
	f.listCalls++
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	if err := f.listErr[kind]; err != nil {
		return nil, err
	}
	return f.lists[kind], nil
}

func staticToken(context.Context) (string, error) { return "tok", nil }

func testEntries() []models.CatalogEntry {
	return []models.CatalogEntry{
		{ID: "a1", Title: "Naruto", Description: "A ninja seeks recognition"},
		{ID: "a2", Title: "One Piece", Description: "Pirates search for treasure"},
		{ID: "a3", Title: "Bleach", Description: "A substitute soul reaper"},
	}
}

func TestCacheLoad(t *testing.T) {
	ctx := context.Background()
	user := &models.Identity{UserID: "u1"}

	t.Run("Anonymous Loads Catalog Only", func(t *testing.T) {
		src := &fakeSource{entries: testEntries()}
		snap := New(src, staticToken, nil).Load(ctx, nil)

		assert.Len(t, snap.Entries, 3)
		assert.Empty(t, snap.Errors)
		assert.Empty(t, snap.Favourites)
		assert.Zero(t, src.listCalls, "no identity-scoped calls without an identity")
	})

	t.Run("Memberships Pruned To Catalog", func(t *testing.T) {
		src := &fakeSource{
			entries: testEntries(),
			lists: map[models.ListKind][]services.SavedEntry{
				models.Favourites: {{AnimeID: "a1"}, {ID: "gone"}},
				models.WatchLater: {{ID: "a2"}},
			},
		}
		cache := New(src, staticToken, nil)
		snap := cache.Load(ctx, user)

		assert.Equal(t, map[string]struct{}{"a1": {}}, snap.Favourites)
		assert.Equal(t, map[string]struct{}{"a2": {}}, snap.WatchLater)
		assert.True(t, cache.IsMember(models.Favourites, "a1"))
		assert.False(t, cache.IsMember(models.Favourites, "gone"))
		assert.Equal(t, []string{"tok", "tok"}, src.tokens)
	})

	t.Run("Sections Fail Independently", func(t *testing.T) {
		src := &fakeSource{
			entries: testEntries(),
			lists:   map[models.ListKind][]services.SavedEntry{models.WatchLater: {{ID: "a3"}}},
			listErr: map[models.ListKind]error{models.Favourites: shared.ErrNetwork},
		}
		snap := New(src, staticToken, nil).Load(ctx, user)

		assert.Len(t, snap.Entries, 3)
		assert.ErrorIs(t, snap.Err(SectionFavourites), shared.ErrNetwork)
		assert.NoError(t, snap.Err(SectionWatchLater))
		assert.Empty(t, snap.Favourites)
		assert.Contains(t, snap.WatchLater, "a3")
	})

	t.Run("Catalog Failure Empties Memberships", func(t *testing.T) {
		src := &fakeSource{
			catalogErr: errors.New("down"),
			lists:      map[models.ListKind][]services.SavedEntry{models.Favourites: {{ID: "a1"}}},
		}
		snap := New(src, staticToken, nil).Load(ctx, user)

		assert.Error(t, snap.Err(SectionCatalog))
		assert.Empty(t, snap.Entries)
		assert.Empty(t, snap.Favourites, "memberships must stay a subset of the catalog")
		assert.ErrorIs(t, snap.Err(SectionFavourites), ErrCatalogUnavailable)
		assert.ErrorIs(t, snap.Err(SectionWatchLater), shared.ErrServiceUnavailable)
	})

	t.Run("Credential Read Failure", func(t *testing.T) {
		src := &fakeSource{entries: testEntries()}
		failing := func(context.Context) (string, error) { return "", errors.New("locked") }
		snap := New(src, failing, nil).Load(ctx, user)

		assert.Error(t, snap.Err(SectionFavourites))
		assert.Error(t, snap.Err(SectionWatchLater))
		assert.Zero(t, src.listCalls)
	})

	t.Run("Reload Replaces Memberships", func(t *testing.T) {
		src := &fakeSource{
			entries: testEntries(),
			lists:   map[models.ListKind][]services.SavedEntry{models.Favourites: {{ID: "a1"}}},
		}
		cache := New(src, staticToken, nil)
		cache.Load(ctx, user)

		src.lists[models.Favourites] = []services.SavedEntry{{ID: "a2"}}
		cache.Load(ctx, user)
		assert.Equal(t, []string{"a2"}, cache.Members(models.Favourites))
	})
}

func TestCacheQueries(t *testing.T) {
	cache := New(&fakeSource{entries: testEntries()}, staticToken, nil)
	cache.Load(context.Background(), nil)

	t.Run("Entry", func(t *testing.T) {
		e, ok := cache.Entry("a2")
		assert.True(t, ok)
		assert.Equal(t, "One Piece", e.Title)

		_, ok = cache.Entry("zz")
		assert.False(t, ok)
	})

	t.Run("Filter", func(t *testing.T) {
		tests := []struct {
			query string
			want  int
		}{
			{"", 3},
			{"NINJA", 1},
			{"bleach", 1},
			{"  soul  ", 1},
			{"nothing", 0},
		}
		for _, tt := range tests {
			assert.Len(t, cache.Filter(tt.query), tt.want, "query %q", tt.query)
		}
	})
}

func TestCacheApplyRestore(t *testing.T) {
	cache := New(&fakeSource{entries: testEntries()}, staticToken, nil)
	cache.Load(context.Background(), nil)

	was, err := cache.Apply(models.Favourites, "a1", true)
	require.NoError(t, err)
	assert.False(t, was)
	assert.True(t, cache.IsMember(models.Favourites, "a1"))

	cache.Restore(models.Favourites, "a1", was)
	assert.False(t, cache.IsMember(models.Favourites, "a1"))

	_, err = cache.Apply(models.WatchLater, "unknown", true)
	assert.ErrorIs(t, err, shared.ErrEntryNotFound)
	assert.Empty(t, cache.Members(models.WatchLater))
}
