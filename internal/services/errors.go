package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/hokage/internal/shared"
)

// APIError is a non-2xx response from the remote service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// Unwrap lets callers match every rejection with errors.Is(err, shared.ErrRemoteRejection).
func (e *APIError) Unwrap() error {
	return shared.ErrRemoteRejection
}

// MessageOr returns the server-supplied message carried by err, or fallback when there is none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func extractMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		return ""
	}

	return strings.TrimSpace(string(data))
}
