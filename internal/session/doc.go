// Package session derives the current user's identity from the stored credential and decides what each
// screen or command may do with it.
//
// [Resolver] decodes the credential locally without verifying its signature; the client never holds the
// server key and the server re-checks the bearer on every identity-scoped call. A credential that cannot be
// decoded is removed from the store by the resolver before it returns.
//
// [Gate] maps the resolved identity and the caller's [Capability] onto a [State].
package session
