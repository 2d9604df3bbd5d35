package session

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/shared"
)

// Capability is what a screen or command needs from the session.
type Capability int

const (
	// AnonymousOK screens render without an identity (catalog, login, register).
	AnonymousOK Capability = iota
	// IdentityRequired screens refuse to issue identity-scoped calls without an identity.
	IdentityRequired
)

// State is the gate's verdict for one mount.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	Degraded
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Degraded:
		return "degraded"
	default:
		return "unauthenticated"
	}
}

// DegradedMessage is shown in place of identity-scoped content.
const DegradedMessage = "Please log in to view this page."

// IdentityResolver is implemented by [Resolver].
type IdentityResolver interface {
	Resolve(ctx context.Context) (*models.Identity, error)
}

// Gate decides the session [State] each time a screen is entered.
type Gate struct {
	resolver IdentityResolver
	logger   *log.Logger
}

func NewGate(resolver IdentityResolver, logger *log.Logger) *Gate {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Gate{resolver: resolver, logger: logger}
}

// Enter resolves the identity once and classifies it against capability.
//
// A credential that failed to decode counts as no identity; the warning is logged, not returned.
// Only store failures are returned as errors.
func (g *Gate) Enter(ctx context.Context, capability Capability) (State, *models.Identity, error) {
	identity, err := g.resolver.Resolve(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrDecode) {
			return Unauthenticated, nil, err
		}
		g.logger.Warn("discarded stored credential", "error", err)
		identity = nil
	}

	switch {
	case identity != nil:
		return Authenticated, identity, nil
	case capability == IdentityRequired:
		return Degraded, nil, nil
	default:
		return Unauthenticated, nil, nil
	}
}
