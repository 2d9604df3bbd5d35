package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrDecode       = fmt.Errorf("credential could not be decoded")
	ErrUnauthorized = fmt.Errorf("not logged in")
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// Remote service errors
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrRemoteRejection    = fmt.Errorf("request rejected by server")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrEntryNotFound      = fmt.Errorf("catalog entry not found")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
