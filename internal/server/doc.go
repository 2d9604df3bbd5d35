// Package server provides HTTP routing, middleware, and the Google sign-in callback for the CLI.
//
// # Routing
//
// [CallbackRouter] mounts [Handler] implementations on an [http.ServeMux] behind a fixed [Middleware] stack,
// the first middleware given running outermost. Routes refuse anything but GET and HEAD.
//
// # Sign-in Callback
//
// Google sign-in happens entirely between the browser, Google and the remote service. When it completes the
// remote service redirects the browser to a local callback URL carrying the bearer credential as ?token=.
//
// [CallbackServer] starts a temporary server (127.0.0.1:3000 by default), hands the request to an
// [OAuthHandler], and shuts down after the first callback. The handler only processes one callback.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
