package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/hokage/internal/account"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountChangePassword prompts for the current and new passwords.
func (r *Runner) AccountChangePassword(ctx context.Context, cmd *cli.Command) error {
	current, err := r.promptSecret("Current password")
	if err != nil {
		return err
	}
	next, err := r.promptSecret("New password")
	if err != nil {
		return err
	}
	confirm, err := r.promptSecret("Confirm new password")
	if err != nil {
		return err
	}

	msg, err := r.accounts.ChangePassword(ctx, current, next, confirm)
	r.writeMessage(msg)
	if err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}
	return nil
}

// AccountForgotPassword walks the three recovery steps. Validation failures re-prompt the same step;
// remote failures end the command.
func (r *Runner) AccountForgotPassword(ctx context.Context, cmd *cli.Command) error {
	flow := account.NewRecovery(r.api, account.WithResetDisplayDelay(r.config.Recovery.ResetDisplayDelay))
	flow.Open()
	defer flow.Close()

	r.writePlainHeader("Password recovery")

	email := cmd.String("email")
	for flow.Step() == account.AwaitingCodeRequest {
		value, err := r.prompt("Email", email)
		if err != nil {
			return err
		}
		email = ""
		if err := r.recoveryStep(flow, flow.RequestCode(ctx, value)); err != nil {
			return err
		}
	}

	for flow.Step() == account.CodeSent {
		code, err := r.prompt("Verification code", "")
		if err != nil {
			return err
		}
		if err := r.recoveryStep(flow, flow.VerifyCode(ctx, code)); err != nil {
			return err
		}
	}

	for flow.Step() == account.CodeVerified {
		password, err := r.promptSecret("New password")
		if err != nil {
			return err
		}
		confirm, err := r.promptSecret("Confirm new password")
		if err != nil {
			return err
		}
		if err := r.recoveryStep(flow, flow.ResetPassword(ctx, password, confirm)); err != nil {
			return err
		}
	}
	return nil
}

// recoveryStep prints the flow's message and swallows validation errors so the caller can re-prompt.
func (r *Runner) recoveryStep(flow *account.Recovery, err error) error {
	r.writeMessage(flow.Message())
	if err == nil || errors.Is(err, shared.ErrValidation) {
		return nil
	}
	return fmt.Errorf("password recovery failed: %w", err)
}
