package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/hokage/internal/formatter"
	"github.com/desertthunder/hokage/internal/lists"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/session"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/urfave/cli/v3"
)

func parseKind(cmd *cli.Command) (models.ListKind, error) {
	arg := cmd.StringArg("list")
	if arg == "" {
		return 0, fmt.Errorf("%w: list (favourites or watch-later)", shared.ErrMissingArgument)
	}
	kind, ok := models.ParseListKind(arg)
	if !ok {
		return 0, fmt.Errorf("%w: unknown list %q, want favourites or watch-later", shared.ErrInvalidArgument, arg)
	}
	return kind, nil
}

func entryArg(cmd *cli.Command) (string, error) {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return "", fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}
	return id, nil
}

// removalView enters an identity-required page for kind. A nil view means the page is degraded.
func (r *Runner) removalView(ctx context.Context, kind models.ListKind) (*lists.RemovalView, *models.Identity, error) {
	state, identity, err := r.gate.Enter(ctx, session.IdentityRequired)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if state == session.Degraded {
		return nil, nil, nil
	}

	view := lists.NewRemovalView(lists.New(kind, identity, r.cache, r.api, r.resolver.Token, r.logger))
	if err := view.Load(ctx); err != nil {
		return nil, nil, err
	}
	return view, identity, nil
}

// ListsShow prints the saved entries of a list.
func (r *Runner) ListsShow(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKind(cmd)
	if err != nil {
		return err
	}

	view, _, err := r.removalView(ctx, kind)
	if err != nil {
		return err
	}
	if view == nil {
		r.writePlain("%s\n", session.DegradedMessage)
		return nil
	}

	items := view.Items()
	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s: %d entries", kind.Label(), len(items)))
	for _, item := range items {
		r.writePlain("%s  %s\n", item.EntryID(), item.Title)
	}
	if len(items) == 0 {
		r.writePlain("Nothing saved yet.\n")
	}
	return nil
}

// ListsToggle adds the entry to the list, or removes it when already saved.
func (r *Runner) ListsToggle(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKind(cmd)
	if err != nil {
		return err
	}
	id, err := entryArg(cmd)
	if err != nil {
		return err
	}

	state, identity, err := r.loadCatalog(ctx, session.IdentityRequired)
	if err != nil {
		return err
	}
	if state == session.Degraded {
		return fmt.Errorf("%w: please log in to save %s", shared.ErrUnauthorized, kind.Label())
	}

	sync := lists.New(kind, identity, r.cache, r.api, r.resolver.Token, r.logger)
	outcome, err := sync.Toggle(ctx, id)
	if err != nil {
		return err
	}

	entry, _ := r.cache.Entry(id)
	switch outcome {
	case lists.OutcomeAdded:
		r.writePlain("✓ Added %s to %s\n", entry.Title, kind.Label())
	case lists.OutcomeRemoved:
		r.writePlain("✓ Removed %s from %s\n", entry.Title, kind.Label())
	}
	return nil
}

// ListsRemove deletes one saved entry.
func (r *Runner) ListsRemove(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKind(cmd)
	if err != nil {
		return err
	}
	id, err := entryArg(cmd)
	if err != nil {
		return err
	}

	view, _, err := r.removalView(ctx, kind)
	if err != nil {
		return err
	}
	if view == nil {
		return fmt.Errorf("%w: please log in to change %s", shared.ErrUnauthorized, kind.Label())
	}

	if _, err := view.Remove(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Removed %s from %s\n", id, kind.Label())
	return nil
}

// ListsExport writes a saved list to a file in the chosen format.
func (r *Runner) ListsExport(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKind(cmd)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	view, identity, err := r.removalView(ctx, kind)
	if err != nil {
		return err
	}
	if view == nil {
		return fmt.Errorf("%w: please log in to export %s", shared.ErrUnauthorized, kind.Label())
	}

	items := view.Items()
	entries := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.CatalogEntry())
	}

	export := formatter.NewListExport(kind, identity.UserID, entries)
	result, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", kind.Label(), err)
	}

	r.logger.Info("exported list", "list", kind.String(), "entries", len(entries), "file", result.File)
	r.writePlain("✓ Exported %d entries to %s\n", len(entries), result.File)
	if result.MetadataFile != "" {
		r.writePlain("  Metadata: %s\n", result.MetadataFile)
	}
	return nil
}
