package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request, authenticated when a credential is stored
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	token, err := r.resolver.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path, token)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, !cmd.Bool("json"))
}

// APIPost makes a direct POST request, authenticated when a credential is stored
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidArgument)
	}

	token, err := r.resolver.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, token, []byte(data))
	if err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrRemoteRejection, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
