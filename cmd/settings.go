package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsTheme prints the stored theme, toggling it first with --toggle.
func (r *Runner) SettingsTheme(ctx context.Context, cmd *cli.Command) error {
	b, err := r.broadcaster(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("toggle") {
		if err := b.Toggle(ctx); err != nil {
			return err
		}
		r.logger.Info("theme changed", "theme", b.Current())
	}
	r.writePlain("Theme: %s\n", b.Current())
	return nil
}

// SettingsPrefs prints playback preferences after applying any flags given.
func (r *Runner) SettingsPrefs(ctx context.Context, cmd *cli.Command) error {
	if r.prefs == nil {
		return fmt.Errorf("%w: preferences store not initialized", shared.ErrServiceUnavailable)
	}

	prefs, err := r.prefs.Get(ctx)
	if err != nil {
		return err
	}

	changed := false
	for _, name := range []string{"autoplay", "notifications"} {
		if !cmd.IsSet(name) {
			continue
		}
		on, err := parseSwitch(cmd.String(name))
		if err != nil {
			return fmt.Errorf("%w: --%s: %v", shared.ErrInvalidArgument, name, err)
		}
		if name == "autoplay" {
			prefs.Autoplay = on
		} else {
			prefs.Notifications = on
		}
		changed = true
	}
	if cmd.IsSet("subtitles") {
		prefs.Subtitles = matchOption(models.SubtitleOptions, cmd.String("subtitles"))
		changed = true
	}
	if cmd.IsSet("quality") {
		prefs.Quality = matchOption(models.QualityOptions, cmd.String("quality"))
		changed = true
	}

	if changed {
		if err := r.prefs.Save(ctx, prefs); err != nil {
			return err
		}
		r.logger.Info("saved preferences", "prefs", prefs)
	}

	if cmd.Bool("json") {
		return r.writeJSON(prefs, true)
	}
	r.writePlain("Autoplay:       %s\n", onOff(prefs.Autoplay))
	r.writePlain("Notifications:  %s\n", onOff(prefs.Notifications))
	r.writePlain("Subtitles:      %s\n", prefs.Subtitles)
	r.writePlain("Quality:        %s\n", prefs.Quality)
	return nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("want on or off, got %q", s)
	}
}

// matchOption returns the canonical spelling of value, or value unchanged so the store can reject it.
func matchOption(options []string, value string) string {
	if i := slices.IndexFunc(options, func(o string) bool { return strings.EqualFold(o, value) }); i >= 0 {
		return options[i]
	}
	return value
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
