package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/desertthunder/hokage/internal/models"
)

// SavedEntry is one item of a saved list as returned by the list endpoints.
//
// The list collections store a denormalized copy of the catalog entry; AnimeID references the catalog id when the
// server includes it, otherwise the document id is the catalog id.
type SavedEntry struct {
	ID          string `json:"_id"`
	AnimeID     string `json:"animeId,omitempty"`
	UserID      string `json:"userId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EmbedURL    string `json:"youtubeEmbedUrl"`
}

// EntryID returns the catalog id this saved item refers to.
func (s SavedEntry) EntryID() string {
	if s.AnimeID != "" {
		return s.AnimeID
	}
	return s.ID
}

// CatalogEntry converts the saved item back into a catalog entry.
func (s SavedEntry) CatalogEntry() models.CatalogEntry {
	return models.CatalogEntry{ID: s.EntryID(), Title: s.Title, Description: s.Description, EmbedURL: s.EmbedURL}
}

type listWriteRequest struct {
	UserID      string `json:"userId"`
	AnimeID     string `json:"animeId,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	EmbedURL    string `json:"youtubeEmbedUrl,omitempty"`
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type recoveryRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func listPath(kind models.ListKind) string {
	if kind == models.WatchLater {
		return "/watch_later"
	}
	return "/favourite_anime"
}

// Catalog fetches every catalog entry. Public; no credential is sent.
func (a *APIService) Catalog(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := a.do(ctx, http.MethodGet, "/anime", "", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Profile fetches the profile of the account owning token.
func (a *APIService) Profile(ctx context.Context, token string) (*models.Profile, error) {
	var profile models.Profile
	if err := a.do(ctx, http.MethodGet, "/user", token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Login exchanges email and password for a bearer credential.
func (a *APIService) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := a.do(ctx, http.MethodPost, "/login", "", credentials{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a new account.
func (a *APIService) Register(ctx context.Context, name, email, password string) error {
	return a.do(ctx, http.MethodPost, "/register", "", credentials{Name: name, Email: email, Password: password}, nil)
}

// GoogleAuthURL returns the address the browser is sent to for Google sign-in.
func (a *APIService) GoogleAuthURL() string {
	return a.baseURL + "/auth/google"
}

// Logout ends the server-side session, if any.
func (a *APIService) Logout(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodGet, "/logout", token, nil, nil)
}

// ListEntries fetches the saved entries of one list for userID.
func (a *APIService) ListEntries(ctx context.Context, kind models.ListKind, token, userID string) ([]SavedEntry, error) {
	path := listPath(kind) + "?" + url.Values{"userId": {userID}}.Encode()

	var entries []SavedEntry
	if err := a.do(ctx, http.MethodGet, path, token, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddToList saves entry to a list, sending the denormalized entry fields along with the reference.
func (a *APIService) AddToList(ctx context.Context, kind models.ListKind, token, userID string, entry models.CatalogEntry) error {
	body := listWriteRequest{
		UserID:      userID,
		AnimeID:     entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
		EmbedURL:    entry.EmbedURL,
	}
	return a.do(ctx, http.MethodPost, listPath(kind), token, body, nil)
}

// RemoveFromList deletes entryID from a list.
func (a *APIService) RemoveFromList(ctx context.Context, kind models.ListKind, token, userID, entryID string) error {
	path := listPath(kind) + "/" + url.PathEscape(entryID)
	return a.do(ctx, http.MethodDelete, path, token, listWriteRequest{UserID: userID}, nil)
}

// ForgotPassword asks the server to email a verification code.
func (a *APIService) ForgotPassword(ctx context.Context, email string) error {
	return a.do(ctx, http.MethodPost, "/forgot-password", "", recoveryRequest{Email: email}, nil)
}

// VerifyResetCode checks a verification code.
func (a *APIService) VerifyResetCode(ctx context.Context, email, code string) error {
	return a.do(ctx, http.MethodPost, "/verify-reset-code", "", recoveryRequest{Email: email, Code: code}, nil)
}

// ResetPassword sets a new password using a verified code.
func (a *APIService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body := recoveryRequest{Email: email, Code: code, NewPassword: newPassword}
	return a.do(ctx, http.MethodPost, "/reset-password", "", body, nil)
}

// ChangePassword changes the password of the logged-in account.
func (a *APIService) ChangePassword(ctx context.Context, token, current, newPassword string) error {
	body := changePasswordRequest{CurrentPassword: current, NewPassword: newPassword}
	return a.do(ctx, http.MethodPost, "/change-password", token, body, nil)
}
