// package account implements the account flows of the client: registration, password login,
// logout, password change and password recovery.
//
// Every flow validates its input before talking to the remote service and reports the outcome as a
// [Message] ready for display.
package account

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
)

// MinPasswordLength applies to registration, password change and recovery.
const MinPasswordLength = 6

// MessageKind classifies a [Message].
type MessageKind int

const (
	KindNone MessageKind = iota
	KindSuccess
	KindDanger
)

// Message is user-facing feedback.
type Message struct {
	Text string
	Kind MessageKind
}

func Success(text string) Message { return Message{Text: text, Kind: KindSuccess} }
func Danger(text string) Message  { return Message{Text: text, Kind: KindDanger} }

// Remote is the account API. Implemented by [services.APIService].
type Remote interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*models.Profile, error)
	ChangePassword(ctx context.Context, token, current, newPassword string) error
}

// CredentialStore is the part of the credential store the account flows write.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type passwordMessages struct {
	missing, short, mismatch string
}

var (
	recoveryPasswordMessages = passwordMessages{
		missing:  "Please enter a new password",
		short:    "Password must be at least 6 characters",
		mismatch: "Passwords don't match",
	}
	changePasswordMessages = passwordMessages{
		missing:  "New password is required",
		short:    "New password must be at least 6 characters",
		mismatch: "New passwords don't match",
	}
)

// validateNewPassword returns the message for the first failed rule, or "".
func validateNewPassword(password, confirm string, msgs passwordMessages) string {
	switch {
	case password == "":
		return msgs.missing
	case len(password) < MinPasswordLength:
		return msgs.short
	case password != confirm:
		return msgs.mismatch
	default:
		return ""
	}
}

func invalid(text string) (Message, error) {
	return Danger(text), fmt.Errorf("%w: %s", shared.ErrValidation, text)
}

// Service runs the account flows against the remote service and the local credential store.
type Service struct {
	remote Remote
	store  CredentialStore
	logger *log.Logger
}

func NewService(remote Remote, store CredentialStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Service{remote: remote, store: store, logger: shared.WithLogger(logger, "component", "account")}
}

// Register creates an account. The user still has to log in afterwards.
func (s *Service) Register(ctx context.Context, name, email, password string) (Message, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return invalid("Please enter your name")
	case strings.TrimSpace(email) == "":
		return invalid("Please enter your email address")
	case password == "":
		return invalid("Please enter a password")
	case len(password) < MinPasswordLength:
		return invalid("Password must be at least 6 characters")
	}

	if err := s.remote.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password); err != nil {
		return Danger(services.MessageOr(err, "Error registering user")), err
	}
	return Success("Registration Successful! Please login."), nil
}

// Login exchanges credentials for a token and stores it.
func (s *Service) Login(ctx context.Context, email, password string) (Message, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("Please enter your email and password")
	}

	token, err := s.remote.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return Danger("Invalid credentials"), fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if token == "" {
		return Danger("Invalid credentials"), fmt.Errorf("%w: server returned no token", shared.ErrAuthFailed)
	}

	if err := s.SaveToken(ctx, token); err != nil {
		return Danger("Could not save your session"), err
	}
	return Success("Login Successful"), nil
}

// SaveToken stores a credential obtained elsewhere, e.g. from the Google sign-in callback.
func (s *Service) SaveToken(ctx context.Context, token string) error {
	if err := s.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	s.logger.Info("stored credential")
	return nil
}

// Logout tells the server and clears the credential. The credential is cleared even if the server call fails.
func (s *Service) Logout(ctx context.Context) (Message, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		return Danger("Could not read your session"), fmt.Errorf("failed to read credential: %w", err)
	}

	if token != "" {
		if err := s.remote.Logout(ctx, token); err != nil {
			s.logger.Warn("remote logout failed", "error", err)
		}
	}

	if err := s.store.ClearToken(ctx); err != nil {
		return Danger("Could not clear your session"), fmt.Errorf("failed to clear credential: %w", err)
	}
	return Success("Logged out"), nil
}

// Profile fetches the profile of the logged-in user.
func (s *Service) Profile(ctx context.Context) (*models.Profile, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}
	if token == "" {
		return nil, shared.ErrUnauthorized
	}
	return s.remote.Profile(ctx, token)
}

// ChangePassword changes the password of the logged-in user. Accounts created with Google sign-in are
// refused without a remote call.
func (s *Service) ChangePassword(ctx context.Context, current, newPassword, confirm string) (Message, error) {
	if current == "" {
		return invalid("Current password is required")
	}
	if text := validateNewPassword(newPassword, confirm, changePasswordMessages); text != "" {
		return invalid(text)
	}

	token, err := s.store.Token(ctx)
	if err != nil {
		return Danger("Could not read your session"), fmt.Errorf("failed to read credential: %w", err)
	}
	if token == "" {
		return Danger("You must be logged in to change your password"), shared.ErrUnauthorized
	}

	if profile, err := s.remote.Profile(ctx, token); err == nil && profile.IsGoogleUser() {
		return invalid("You're signed in with Google. Manage your account through Google.")
	} else if err != nil {
		s.logger.Debug("profile lookup failed before password change", "error", err)
	}

	if err := s.remote.ChangePassword(ctx, token, current, newPassword); err != nil {
		return Danger(services.MessageOr(err, "Failed to change password. Please try again.")), err
	}
	return Success("Password changed successfully!"), nil
}
