package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/shared"
)

// PreferencesRepository persists [models.Preferences] in the single-row preferences table.
type PreferencesRepository struct {
	db *sql.DB
}

// NewPreferencesRepository creates a new [PreferencesRepository] with the given database connection
func NewPreferencesRepository(db *sql.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get returns the saved preferences, or [models.DefaultPreferences] when none were saved.
func (r *PreferencesRepository) Get(ctx context.Context) (models.Preferences, error) {
	query := `SELECT autoplay, notifications, subtitles, quality FROM preferences WHERE id = 1`

	var p models.Preferences
	err := r.db.QueryRowContext(ctx, query).Scan(&p.Autoplay, &p.Notifications, &p.Subtitles, &p.Quality)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to query preferences: %w", err)
	}
	return p, nil
}

// Save validates and stores p.
func (r *PreferencesRepository) Save(ctx context.Context, p models.Preferences) error {
	if !slices.Contains(models.SubtitleOptions, p.Subtitles) {
		return fmt.Errorf("%w: unknown subtitles option %q", shared.ErrValidation, p.Subtitles)
	}
	if !slices.Contains(models.QualityOptions, p.Quality) {
		return fmt.Errorf("%w: unknown quality option %q", shared.ErrValidation, p.Quality)
	}

	query := `
		INSERT INTO preferences (id, autoplay, notifications, subtitles, quality, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			autoplay = excluded.autoplay,
			notifications = excluded.notifications,
			subtitles = excluded.subtitles,
			quality = excluded.quality,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, p.Autoplay, p.Notifications, p.Subtitles, p.Quality); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
