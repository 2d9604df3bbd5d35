package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Settings keys
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

// CredentialStore is the durable key/value store for the credential and theme preference.
//
// Absent values read as the empty string.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

// SettingsRepository implements [CredentialStore] on the settings table.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new [SettingsRepository] with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value stored under key, or "" when the key is absent.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepository) Token(ctx context.Context) (string, error) { return r.Get(ctx, KeyToken) }

func (r *SettingsRepository) SetToken(ctx context.Context, token string) error {
	return r.Set(ctx, KeyToken, token)
}

func (r *SettingsRepository) ClearToken(ctx context.Context) error { return r.Delete(ctx, KeyToken) }

func (r *SettingsRepository) Theme(ctx context.Context) (string, error) { return r.Get(ctx, KeyTheme) }

func (r *SettingsRepository) SetTheme(ctx context.Context, theme string) error {
	return r.Set(ctx, KeyTheme, theme)
}
