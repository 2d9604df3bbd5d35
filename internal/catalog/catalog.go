// package catalog holds the shared, session-wide snapshot of the remote catalog and of the user's list
// memberships.
package catalog

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
)

// ErrCatalogUnavailable is recorded for a membership section whose list was fetched while the catalog was not.
var ErrCatalogUnavailable = fmt.Errorf("%w: catalog not loaded", shared.ErrServiceUnavailable)

// Section names one independently fetched part of a [Snapshot].
type Section string

const (
	SectionCatalog    Section = "catalog"
	SectionFavourites Section = "favourites"
	SectionWatchLater Section = "watch-later"
)

// SectionFor returns the section holding memberships of kind.
func SectionFor(kind models.ListKind) Section {
	if kind == models.WatchLater {
		return SectionWatchLater
	}
	return SectionFavourites
}

// Source is the remote side of the cache. Implemented by [services.APIService].
type Source interface {
	Catalog(ctx context.Context) ([]models.CatalogEntry, error)
	ListEntries(ctx context.Context, kind models.ListKind, token, userID string) ([]services.SavedEntry, error)
}

// Snapshot is a copy of the cache taken after a [Cache.Load].
type Snapshot struct {
	Entries    []models.CatalogEntry
	Favourites map[string]struct{}
	WatchLater map[string]struct{}
	// Errors holds the failure of each section that could not be fetched; that section is empty.
	Errors map[Section]error
}

// Err returns the failure recorded for section, if any.
func (s Snapshot) Err(section Section) error {
	return s.Errors[section]
}

// Cache is the in-memory catalog and membership state shared by every view of one session.
//
// Membership sets are replaced wholesale by Load and afterwards only mutated through [Cache.Apply]
// and [Cache.Restore], which the list synchronizer uses for optimistic changes.
type Cache struct {
	source Source
	token  func(ctx context.Context) (string, error)
	logger *log.Logger

	mu      sync.RWMutex
	entries []models.CatalogEntry
	byID    map[string]models.CatalogEntry
	members map[models.ListKind]map[string]struct{}
}

// New creates an empty cache. token supplies the bearer for identity-scoped fetches.
func New(source Source, token func(ctx context.Context) (string, error), logger *log.Logger) *Cache {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Cache{
		source:  source,
		token:   token,
		logger:  logger,
		byID:    map[string]models.CatalogEntry{},
		members: emptyMembers(),
	}
}

func emptyMembers() map[models.ListKind]map[string]struct{} {
	return map[models.ListKind]map[string]struct{}{
		models.Favourites: {},
		models.WatchLater: {},
	}
}

type fetchResult struct {
	section Section
	entries []models.CatalogEntry
	ids     []string
	err     error
}

// Load fetches the catalog and, when identity is non-nil, both membership lists.
//
// The fetches run concurrently and fail independently; there is no retry. Memberships are pruned to ids
// present in the freshly loaded catalog, so a failed catalog also marks both membership sections failed.
func (c *Cache) Load(ctx context.Context, identity *models.Identity) Snapshot {
	var (
		wg      sync.WaitGroup
		results = make(chan fetchResult, 3)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		entries, err := c.source.Catalog(ctx)
		results <- fetchResult{section: SectionCatalog, entries: entries, err: err}
	}()

	if identity != nil {
		token, err := c.token(ctx)
		for _, kind := range models.ListKinds {
			if err != nil {
				results <- fetchResult{section: SectionFor(kind), err: fmt.Errorf("failed to read credential: %w", err)}
				continue
			}

			wg.Add(1)
			go func(kind models.ListKind) {
				defer wg.Done()
				saved, err := c.source.ListEntries(ctx, kind, token, identity.UserID)
				ids := make([]string, 0, len(saved))
				for _, s := range saved {
					ids = append(ids, s.EntryID())
				}
				results <- fetchResult{section: SectionFor(kind), ids: ids, err: err}
			}(kind)
		}
	}

	wg.Wait()
	close(results)

	errs := map[Section]error{}
	fetched := map[Section]fetchResult{}
	for res := range results {
		if res.err != nil {
			errs[res.section] = res.err
			c.logger.Warn("fetch failed", "section", res.section, "error", res.err)
			continue
		}
		fetched[res.section] = res
	}
	if _, ok := fetched[SectionCatalog]; !ok {
		for _, kind := range models.ListKinds {
			if _, ok := fetched[SectionFor(kind)]; ok {
				errs[SectionFor(kind)] = ErrCatalogUnavailable
				delete(fetched, SectionFor(kind))
			}
		}
	}

	c.mu.Lock()
	if res, ok := fetched[SectionCatalog]; ok {
		c.entries = res.entries
	} else {
		c.entries = nil
	}
	c.byID = make(map[string]models.CatalogEntry, len(c.entries))
	for _, e := range c.entries {
		c.byID[e.ID] = e
	}

	c.members = emptyMembers()
	for _, kind := range models.ListKinds {
		for _, id := range fetched[SectionFor(kind)].ids {
			if _, ok := c.byID[id]; ok {
				c.members[kind][id] = struct{}{}
			}
		}
	}
	c.mu.Unlock()

	c.logger.Debug("loaded catalog", "entries", len(c.entries), "failed_sections", len(errs))

	snap := c.Snapshot()
	snap.Errors = errs
	return snap
}

// Snapshot copies the current state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Entries:    slices.Clone(c.entries),
		Favourites: maps.Clone(c.members[models.Favourites]),
		WatchLater: maps.Clone(c.members[models.WatchLater]),
		Errors:     map[Section]error{},
	}
}

// Entries returns the loaded catalog in server order.
func (c *Cache) Entries() []models.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries)
}

// Entry looks up a catalog entry by id.
func (c *Cache) Entry(id string) (models.CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[id]
	return e, ok
}

// Filter returns the entries matching query; an empty query matches everything.
func (c *Cache) Filter(query string) []models.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.CatalogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out
}

// Members returns the ids saved in the kind list, sorted.
func (c *Cache) Members(kind models.ListKind) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.members[kind]))
}

// IsMember reports whether id is saved in the kind list.
func (c *Cache) IsMember(kind models.ListKind, id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.members[kind][id]
	return ok
}

// Apply sets the membership of id in the kind list and reports the previous membership.
//
// Ids absent from the catalog are never added.
func (c *Cache) Apply(kind models.ListKind, id string, member bool) (was bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, was = c.members[kind][id]
	if member {
		if _, ok := c.byID[id]; !ok {
			return was, fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
		}
		c.members[kind][id] = struct{}{}
	} else {
		delete(c.members[kind], id)
	}
	return was, nil
}

// Restore puts the membership of id back to was, undoing an [Cache.Apply].
func (c *Cache) Restore(kind models.ListKind, id string, was bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if was {
		if _, ok := c.byID[id]; ok {
			c.members[kind][id] = struct{}{}
		}
		return
	}
	delete(c.members[kind], id)
}
