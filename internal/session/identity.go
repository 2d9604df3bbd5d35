package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// TokenStore is the part of the credential store the resolver needs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Resolver turns the stored credential into an [models.Identity].
type Resolver struct {
	store  TokenStore
	parser *jwt.Parser
	now    func() time.Time
	logger *log.Logger
}

// NewResolver creates a [Resolver] reading from store.
func NewResolver(store TokenStore, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Resolver{
		store:  store,
		parser: jwt.NewParser(),
		now:    time.Now,
		logger: logger,
	}
}

// Resolve reads and decodes the credential.
//
// It returns (nil, nil) when no credential is stored. When the credential cannot be decoded, has expired or
// carries no user id, the credential is cleared and the error wraps [shared.ErrDecode].
func (r *Resolver) Resolve(ctx context.Context) (*models.Identity, error) {
	token, err := r.store.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	identity, decodeErr := r.decode(token)
	if decodeErr == nil {
		return identity, nil
	}

	if err := r.store.ClearToken(ctx); err != nil {
		r.logger.Error("failed to clear undecodable credential", "error", err)
		return nil, fmt.Errorf("%w; failed to clear credential: %v", decodeErr, err)
	}
	return nil, decodeErr
}

// Token returns the stored credential, or "" when absent.
func (r *Resolver) Token(ctx context.Context) (string, error) {
	return r.store.Token(ctx)
}

func (r *Resolver) decode(token string) (*models.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	if exp != nil && !r.now().Before(exp.Time) {
		return nil, fmt.Errorf("%w: credential expired at %s", shared.ErrDecode, exp.Time.Format(time.RFC3339))
	}

	userID := stringClaim(claims, "userId")
	if userID == "" {
		userID = stringClaim(claims, "sub")
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: credential carries no user id", shared.ErrDecode)
	}
	return &models.Identity{UserID: userID}, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	switch v := claims[name].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
