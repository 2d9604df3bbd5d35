// Package services implements the HTTP client for the HOKAGE catalog and account service.
//
// # Client
//
// [APIService] is constructed once per process and shared by every command and screen. It holds no credential:
// identity-scoped calls take the bearer token as an argument and attach it through an [oauth2.Transport] wrapping
// the configured HTTP client. Every request carries an X-Request-ID header.
//
// # Endpoints
//
// The typed methods map one-to-one onto the remote routes:
//   - Catalog: GET /anime
//   - Profile: GET /user
//   - Login, Register, Logout: POST /login, POST /register, GET /logout
//   - ListEntries, AddToList, RemoveFromList: /favourite_anime and /watch_later
//   - ForgotPassword, VerifyResetCode, ResetPassword: the password recovery routes
//   - ChangePassword: POST /change-password
//
// Get and Post return the raw [APIResponse] and back the `api` debugging commands.
//
// # Error Handling
//
// Transport failures wrap [shared.ErrNetwork]. Non-2xx responses are returned as [*APIError], which carries the
// server's message and unwraps to [shared.ErrRemoteRejection]. [MessageOr] extracts the message for display.
package services
