package lists

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
)

// RemovalView backs the dedicated favourites and watch-later pages: a rendered list of saved entries that
// can only shrink.
type RemovalView struct {
	sync *Synchronizer

	mu    sync.Mutex
	items []services.SavedEntry
}

func NewRemovalView(s *Synchronizer) *RemovalView {
	return &RemovalView{sync: s}
}

// Load fetches the saved entries of the list, replacing the rendered items.
func (v *RemovalView) Load(ctx context.Context) error {
	s := v.sync
	if s.identity == nil {
		return shared.ErrUnauthorized
	}

	token, err := s.token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}

	items, err := s.remote.ListEntries(ctx, s.kind, token, s.identity.UserID)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", s.kind.Label(), err)
	}

	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// Items returns the rendered entries.
func (v *RemovalView) Items() []services.SavedEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.items)
}

// Remove deletes entryID remotely and, on success only, drops it from the rendered items.
func (v *RemovalView) Remove(ctx context.Context, entryID string) (Outcome, error) {
	s := v.sync
	if s.identity == nil {
		return OutcomeDropped, shared.ErrUnauthorized
	}
	if !v.contains(entryID) {
		return OutcomeDropped, fmt.Errorf("%w: %s", ErrUnknownEntry, entryID)
	}
	if !s.acquire(entryID) {
		return OutcomeDropped, nil
	}
	defer s.release(entryID)

	p, err := s.stage(ctx, models.CatalogEntry{ID: entryID}, false)
	if err != nil {
		return OutcomeDropped, err
	}
	outcome, err := p.commit(ctx)
	if err != nil {
		return outcome, err
	}

	v.mu.Lock()
	v.items = slices.DeleteFunc(v.items, func(item services.SavedEntry) bool { return item.EntryID() == entryID })
	v.mu.Unlock()
	return outcome, nil
}

func (v *RemovalView) contains(entryID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.ContainsFunc(v.items, func(item services.SavedEntry) bool { return item.EntryID() == entryID })
}
