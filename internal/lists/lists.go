// package lists keeps the favourites and watch-later memberships in step with the remote service.
//
// Every change is applied to the shared [catalog.Cache] first and reverted if the remote call fails.
// A change requested for an entry that already has a request in flight is dropped, not queued.
package lists

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/catalog"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
)

// ErrUnknownEntry is returned for ids absent from the loaded catalog or the rendered list.
var ErrUnknownEntry = fmt.Errorf("%w: not loaded", shared.ErrEntryNotFound)

// Outcome is the result of a toggle or removal.
type Outcome int

const (
	OutcomeDropped Outcome = iota
	OutcomeAdded
	OutcomeRemoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeRemoved:
		return "removed"
	default:
		return "dropped"
	}
}

// Remote is the list API. Implemented by [services.APIService].
type Remote interface {
	ListEntries(ctx context.Context, kind models.ListKind, token, userID string) ([]services.SavedEntry, error)
	AddToList(ctx context.Context, kind models.ListKind, token, userID string, entry models.CatalogEntry) error
	RemoveFromList(ctx context.Context, kind models.ListKind, token, userID, entryID string) error
}

// Synchronizer owns the optimistic add/remove protocol for one list of one identity.
type Synchronizer struct {
	kind     models.ListKind
	identity *models.Identity
	cache    *catalog.Cache
	remote   Remote
	token    func(ctx context.Context) (string, error)
	logger   *log.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates a [Synchronizer]. identity may be nil, in which case every change fails with
// [shared.ErrUnauthorized] without contacting the remote service.
func New(
	kind models.ListKind,
	identity *models.Identity,
	cache *catalog.Cache,
	remote Remote,
	token func(ctx context.Context) (string, error),
	logger *log.Logger,
) *Synchronizer {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Synchronizer{
		kind:     kind,
		identity: identity,
		cache:    cache,
		remote:   remote,
		token:    token,
		logger:   shared.WithLogger(logger, "list", kind.String()),
		inFlight: map[string]struct{}{},
	}
}

// Kind returns the list this synchronizer manages.
func (s *Synchronizer) Kind() models.ListKind { return s.kind }

// InFlight reports whether a request for id is outstanding.
func (s *Synchronizer) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[id]
	return ok
}

func (s *Synchronizer) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Synchronizer) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// Toggle adds entryID to the list when it is not a member and removes it otherwise.
//
// The call blocks until the remote service answers. On failure the membership is restored to its exact
// pre-toggle value and the remote error is returned.
func (s *Synchronizer) Toggle(ctx context.Context, entryID string) (Outcome, error) {
	p, err := s.Begin(ctx, entryID)
	if p == nil {
		return OutcomeDropped, err
	}
	return p.Commit(ctx)
}

// Pending is a toggle applied to the cache whose remote call has not been made.
type Pending struct {
	s     *Synchronizer
	entry models.CatalogEntry
	token string
	add   bool
	was   bool
}

// Begin acquires entryID and applies the toggle to the cache without contacting the remote service.
//
// A nil [Pending] with a nil error means the toggle was dropped because a request for entryID is already
// in flight. A non-nil [Pending] keeps entryID in flight until [Pending.Commit] is called.
func (s *Synchronizer) Begin(ctx context.Context, entryID string) (*Pending, error) {
	if s.identity == nil {
		return nil, shared.ErrUnauthorized
	}
	if !s.acquire(entryID) {
		s.logger.Debug("dropped toggle, request in flight", "entry", entryID)
		return nil, nil
	}

	entry, ok := s.cache.Entry(entryID)
	if !ok {
		s.release(entryID)
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, entryID)
	}

	p, err := s.stage(ctx, entry, !s.cache.IsMember(s.kind, entryID))
	if err != nil {
		s.release(entryID)
		return nil, err
	}
	return p, nil
}

// stage must be called with entry.ID acquired.
func (s *Synchronizer) stage(ctx context.Context, entry models.CatalogEntry, add bool) (*Pending, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	was, err := s.cache.Apply(s.kind, entry.ID, add)
	if err != nil {
		return nil, err
	}
	return &Pending{s: s, entry: entry, token: token, add: add, was: was}, nil
}

// Outcome is what [Pending.Commit] reports when the remote call succeeds.
func (p *Pending) Outcome() Outcome {
	if p.add {
		return OutcomeAdded
	}
	return OutcomeRemoved
}

// Commit makes the remote call, reverts the cache on failure and releases the entry.
func (p *Pending) Commit(ctx context.Context) (Outcome, error) {
	defer p.s.release(p.entry.ID)
	return p.commit(ctx)
}

func (p *Pending) commit(ctx context.Context) (Outcome, error) {
	s, id := p.s, p.entry.ID

	if p.add {
		if err := s.remote.AddToList(ctx, s.kind, p.token, s.identity.UserID, p.entry); err != nil {
			s.cache.Restore(s.kind, id, p.was)
			s.logger.Warn("add failed, reverted", "entry", id, "error", err)
			return OutcomeDropped, fmt.Errorf("failed to add %q to %s: %w", p.entry.Title, s.kind.Label(), err)
		}
		s.logger.Info("added", "entry", id)
		return OutcomeAdded, nil
	}

	if err := s.remote.RemoveFromList(ctx, s.kind, p.token, s.identity.UserID, id); err != nil {
		s.cache.Restore(s.kind, id, p.was)
		s.logger.Warn("remove failed, reverted", "entry", id, "error", err)
		return OutcomeDropped, fmt.Errorf("failed to remove %s from %s: %w", id, s.kind.Label(), err)
	}
	s.logger.Info("removed", "entry", id)
	return OutcomeRemoved, nil
}
