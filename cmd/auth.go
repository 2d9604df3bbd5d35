package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/hokage/internal/shared"
	"github.com/desertthunder/hokage/internal/server"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in with email and password and stores the returned credential.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email, err := r.prompt("Email", cmd.String("email"))
	if err != nil {
		return err
	}
	password, err := r.promptSecret("Password")
	if err != nil {
		return err
	}

	msg, err := r.accounts.Login(ctx, email, password)
	r.writeMessage(msg)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// AuthRegister creates an account. Registration does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name, err := r.prompt("Name", cmd.String("name"))
	if err != nil {
		return err
	}
	email, err := r.prompt("Email", cmd.String("email"))
	if err != nil {
		return err
	}
	password, err := r.promptSecret("Password")
	if err != nil {
		return err
	}

	msg, err := r.accounts.Register(ctx, name, email, password)
	r.writeMessage(msg)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// AuthGoogle runs the browser sign-in: a local callback server receives the credential from the redirect.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	logger := shared.WithLogger(r.logger, "component", "oauth")

	srv, err := server.StartCallbackServer(r.config.OAuth.CallbackAddr, r.config.OAuth.CallbackPath, logger)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	logger.Debug("waiting for callback", "url", srv.URL())

	authURL := r.api.GoogleAuthURL()
	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to sign in with Google:\n  %s\n\n", authURL)
	} else {
		r.writePlain("Opening browser to sign in with Google...\n")
		r.writePlain("If the browser does not open, visit:\n  %s\n\n", authURL)
		if err := r.open(authURL); err != nil {
			logger.Warn("failed to open browser", "error", err)
		}
	}

	waitCtx := ctx
	if r.config.OAuth.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.config.OAuth.Timeout)
		defer cancel()
	}

	token, err := srv.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, shared.ErrTimeout) {
			r.writePlain("✗ Timed out waiting for Google sign-in\n")
		} else {
			r.writePlain("✗ Google sign-in failed. Try 'hokage auth login' instead.\n")
		}
		return fmt.Errorf("google sign-in failed: %w", err)
	}

	if err := r.accounts.SaveToken(ctx, token.AccessToken); err != nil {
		return err
	}
	r.writePlain("✓ Signed in with Google\n")
	return nil
}

// AuthLogout ends the session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	msg, err := r.accounts.Logout(ctx)
	r.writeMessage(msg)
	return err
}

// AuthWhoami prints the profile of the logged-in account, or Guest.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	profile, err := r.accounts.Profile(ctx)
	if errors.Is(err, shared.ErrUnauthorized) {
		if cmd.Bool("json") {
			return r.writeJSON(map[string]any{"guest": true}, false)
		}
		r.writePlain("Guest\n")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	identity, err := r.resolver.Resolve(ctx)
	if err != nil {
		r.logger.Warn("stored credential could not be decoded", "error", err)
	}

	if cmd.Bool("json") {
		out := map[string]any{
			"name":   profile.Name,
			"email":  profile.Email,
			"google": profile.IsGoogleUser(),
		}
		if identity != nil {
			out["userId"] = identity.UserID
		}
		return r.writeJSON(out, false)
	}

	r.writePlain("Name:   %s\n", profile.Name)
	r.writePlain("Email:  %s\n", profile.Email)
	if identity != nil {
		r.writePlain("User:   %s\n", identity.UserID)
	}
	if profile.IsGoogleUser() {
		r.writePlain("Signed in with Google\n")
	}
	return nil
}
