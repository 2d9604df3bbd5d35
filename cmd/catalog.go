package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/hokage/internal/catalog"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/session"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadCatalog enters the session with capability and fills the cache. A failed catalog fetch is an error;
// failed list fetches only leave the membership markers empty.
func (r *Runner) loadCatalog(ctx context.Context, capability session.Capability) (session.State, *models.Identity, error) {
	state, identity, err := r.gate.Enter(ctx, capability)
	if err != nil {
		return state, nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	snapshot := r.cache.Load(ctx, identity)
	if err := snapshot.Err(catalog.SectionCatalog); err != nil {
		return state, identity, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	return state, identity, nil
}

// CatalogList prints the catalog, optionally filtered by --search.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	if _, _, err := r.loadCatalog(ctx, session.AnonymousOK); err != nil {
		return err
	}

	query := cmd.String("search")
	entries := r.cache.Filter(query)
	r.logger.Debug("filtered catalog", "query", query, "entries", len(entries))

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if query != "" {
		r.writePlainHeader(fmt.Sprintf("Catalog: %d matching %q", len(entries), query))
	} else {
		r.writePlainHeader(fmt.Sprintf("Catalog: %d entries", len(entries)))
	}
	for _, e := range entries {
		r.writePlain("%s%s  %s\n", r.markers(e.ID), e.ID, e.Title)
	}
	if len(entries) == 0 {
		r.writePlain("No anime found.\n")
	}
	return nil
}

// CatalogShow prints one entry with its list membership.
func (r *Runner) CatalogShow(ctx context.Context, cmd *cli.Command) error {
	entry, err := r.lookupEntry(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	r.writePlainHeader(entry.Title)
	r.writePlain("ID:          %s\n", entry.ID)
	r.writePlain("Video:       %s\n", entry.EmbedURL)
	for _, kind := range models.ListKinds {
		if r.cache.IsMember(kind, entry.ID) {
			r.writePlain("In:          %s\n", kind.Label())
		}
	}
	if entry.Description != "" {
		r.writePlainln("%s", entry.Description)
	}
	return nil
}

// CatalogOpen opens the entry's embedded video in the browser.
func (r *Runner) CatalogOpen(ctx context.Context, cmd *cli.Command) error {
	entry, err := r.lookupEntry(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if entry.EmbedURL == "" {
		return fmt.Errorf("%w: %q has no video", shared.ErrInvalidArgument, entry.Title)
	}

	r.logger.Info("opening video", "entry", entry.ID, "url", entry.EmbedURL)
	if err := r.open(entry.EmbedURL); err != nil {
		return err
	}
	r.writePlain("✓ Opened %s\n", entry.Title)
	return nil
}

func (r *Runner) lookupEntry(ctx context.Context, id string) (models.CatalogEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.CatalogEntry{}, fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}
	if _, _, err := r.loadCatalog(ctx, session.AnonymousOK); err != nil {
		return models.CatalogEntry{}, err
	}

	entry, ok := r.cache.Entry(id)
	if !ok {
		return models.CatalogEntry{}, fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}
	return entry, nil
}

// markers renders the membership column of a catalog row.
func (r *Runner) markers(id string) string {
	fav, later := "  ", "  "
	if r.cache.IsMember(models.Favourites, id) {
		fav = "♥ "
	}
	if r.cache.IsMember(models.WatchLater, id) {
		later = "⏱ "
	}
	return fav + later
}
