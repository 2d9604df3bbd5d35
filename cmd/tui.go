package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/desertthunder/hokage/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.prefs == nil {
		return fmt.Errorf("%w: preferences store not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.TUIFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	themes, err := r.broadcaster(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Deps{
		Gate:   r.gate,
		Cache:  r.cache,
		Remote: r.api,
		Token:  r.resolver.Token,
		Theme:  themes,
		Prefs:  r.prefs,
		Open:   r.open,
		Logger: fileLogger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
