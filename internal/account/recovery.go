package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
)

// DefaultResetDisplayDelay is how long the success message stays up after a reset before the flow closes.
const DefaultResetDisplayDelay = 3 * time.Second

var (
	// ErrWrongStep is returned when a recovery action is attempted out of order.
	ErrWrongStep = errors.New("recovery step not available")
	// ErrFlowReset is returned when the flow was closed or reopened while the remote call was pending.
	ErrFlowReset = errors.New("recovery flow was reset")
)

// Step is a state of the password recovery flow.
type Step int

const (
	Idle Step = iota
	AwaitingCodeRequest
	CodeSent
	CodeVerified
	Reset
)

func (s Step) String() string {
	switch s {
	case AwaitingCodeRequest:
		return "awaiting-code-request"
	case CodeSent:
		return "code-sent"
	case CodeVerified:
		return "code-verified"
	case Reset:
		return "reset"
	default:
		return "idle"
	}
}

// RecoveryRemote is the recovery API. Implemented by [services.APIService].
type RecoveryRemote interface {
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// RecoveryOption configures a [Recovery].
type RecoveryOption func(*Recovery)

// WithResetDisplayDelay sets how long Reset is shown before returning to Idle.
func WithResetDisplayDelay(d time.Duration) RecoveryOption {
	return func(r *Recovery) {
		if d > 0 {
			r.delay = d
		}
	}
}

// WithOnIdle registers fn to run when the flow closes itself after a reset.
func WithOnIdle(fn func()) RecoveryOption {
	return func(r *Recovery) { r.onIdle = fn }
}

// Recovery is the forgot-password flow: request a code, verify it, then set a new password.
type Recovery struct {
	remote RecoveryRemote
	delay  time.Duration
	onIdle func()

	mu      sync.Mutex
	step    Step
	email   string
	code    string
	message Message
	timer   *time.Timer
	// gen is bumped by every reset; completions of an older generation are discarded.
	gen uint64
}

func NewRecovery(remote RecoveryRemote, opts ...RecoveryOption) *Recovery {
	r := &Recovery{remote: remote, delay: DefaultResetDisplayDelay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Step returns the current state.
func (r *Recovery) Step() Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Message returns the latest feedback message.
func (r *Recovery) Message() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

// Email returns the address the code was requested for.
func (r *Recovery) Email() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.email
}

// Open starts the flow from the first step with every field cleared.
func (r *Recovery) Open() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset(AwaitingCodeRequest)
}

// Close abandons the flow.
func (r *Recovery) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset(Idle)
}

// must hold mu
func (r *Recovery) reset(step Step) {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	r.step = step
	r.email = ""
	r.code = ""
	r.message = Message{}
}

// RequestCode asks the server to send a verification code to email.
func (r *Recovery) RequestCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	r.mu.Lock()
	if r.step != AwaitingCodeRequest {
		defer r.mu.Unlock()
		return fmt.Errorf("%w: request code in state %s", ErrWrongStep, r.step)
	}
	if email == "" {
		defer r.mu.Unlock()
		return r.invalid("Please enter your email address")
	}
	gen := r.gen
	r.mu.Unlock()

	err := r.remote.ForgotPassword(ctx, email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return ErrFlowReset
	}
	if err != nil {
		return r.failed(err, "Failed to send verification code")
	}
	r.email = email
	r.step = CodeSent
	r.message = Success("Verification code sent to your email")
	return nil
}

// VerifyCode checks the code the user received.
func (r *Recovery) VerifyCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	r.mu.Lock()
	if r.step != CodeSent {
		defer r.mu.Unlock()
		return fmt.Errorf("%w: verify code in state %s", ErrWrongStep, r.step)
	}
	if code == "" {
		defer r.mu.Unlock()
		return r.invalid("Please enter the verification code")
	}
	email, gen := r.email, r.gen
	r.mu.Unlock()

	err := r.remote.VerifyResetCode(ctx, email, code)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return ErrFlowReset
	}
	if err != nil {
		return r.failed(err, "Invalid verification code")
	}
	r.code = code
	r.step = CodeVerified
	r.message = Success("Code verified successfully")
	return nil
}

// ResetPassword sets the new password. On success the flow shows its message, then returns to Idle after
// the display delay.
func (r *Recovery) ResetPassword(ctx context.Context, newPassword, confirm string) error {
	r.mu.Lock()
	if r.step != CodeVerified {
		defer r.mu.Unlock()
		return fmt.Errorf("%w: reset password in state %s", ErrWrongStep, r.step)
	}
	if text := validateNewPassword(newPassword, confirm, recoveryPasswordMessages); text != "" {
		defer r.mu.Unlock()
		return r.invalid(text)
	}
	email, code, gen := r.email, r.code, r.gen
	r.mu.Unlock()

	err := r.remote.ResetPassword(ctx, email, code, newPassword)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return ErrFlowReset
	}
	if err != nil {
		return r.failed(err, "Failed to reset password")
	}
	r.step = Reset
	r.message = Success("Password reset successfully! You can now login with your new password.")

	var timer *time.Timer
	timer = time.AfterFunc(r.delay, func() {
		r.mu.Lock()
		if r.timer != timer {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		r.reset(Idle)
		onIdle := r.onIdle
		r.mu.Unlock()

		if onIdle != nil {
			onIdle()
		}
	})
	r.timer = timer
	return nil
}

// must hold mu
func (r *Recovery) invalid(text string) error {
	r.message = Danger(text)
	return fmt.Errorf("%w: %s", shared.ErrValidation, text)
}

// must hold mu
func (r *Recovery) failed(err error, fallback string) error {
	r.message = Danger(services.MessageOr(err, fallback))
	return err
}
