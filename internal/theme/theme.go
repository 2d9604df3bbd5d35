// package theme holds the light/dark preference shared by every screen and notifies subscribers when it flips.
package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/hokage/internal/models"
)

// Store persists the preference. Implemented by the credential store.
type Store interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

// Broadcaster is the injected theme container. Create one per process and pass it to every consumer.
type Broadcaster struct {
	store Store

	mu     sync.Mutex
	dark   bool
	nextID int
	subs   map[int]func(models.Theme)
}

// New reads the stored preference; anything other than "light" (including nothing) starts dark.
func New(ctx context.Context, store Store) (*Broadcaster, error) {
	b := &Broadcaster{store: store, dark: true, subs: map[int]func(models.Theme){}}

	stored, err := store.Theme(ctx)
	if err != nil {
		return b, fmt.Errorf("failed to read theme: %w", err)
	}
	b.dark = models.Theme(stored) != models.ThemeLight
	return b, nil
}

// IsDark reports the current preference.
func (b *Broadcaster) IsDark() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dark
}

// Current returns the current [models.Theme].
func (b *Broadcaster) Current() models.Theme {
	return models.ThemeFor(b.IsDark())
}

// Toggle flips the preference, persists it, then calls every subscriber before returning.
//
// If persisting fails the preference is left unchanged and nobody is notified.
func (b *Broadcaster) Toggle(ctx context.Context) error {
	b.mu.Lock()
	next := !b.dark
	if err := b.store.SetTheme(ctx, string(models.ThemeFor(next))); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("failed to save theme: %w", err)
	}
	b.dark = next

	subs := make([]func(models.Theme), 0, len(b.subs))
	for id := 0; id < b.nextID; id++ {
		if fn, ok := b.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	b.mu.Unlock()

	theme := models.ThemeFor(next)
	for _, fn := range subs {
		fn(theme)
	}
	return nil
}

// Subscribe registers fn to be called with the new theme after each toggle.
func (b *Broadcaster) Subscribe(fn func(models.Theme)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}
