package server

import (
	"net/http"
)

// CallbackRouter dispatches requests of the callback server to mounted [Handler] routes.
//
// The browser only reaches the callback by following a redirect, so every route answers GET and HEAD only.
type CallbackRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewCallbackRouter creates a router whose routes are wrapped by middleware, first listed outermost.
func NewCallbackRouter(middleware ...Middleware) *CallbackRouter {
	return &CallbackRouter{
		mux:         http.NewServeMux(),
		middlewares: middleware,
	}
}

// Mount registers handler for every route returned by [Handler.Routes].
func (r *CallbackRouter) Mount(handler Handler) {
	wrapped := r.wrap(redirectOnly(handler))
	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *CallbackRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *CallbackRouter) wrap(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}

func redirectOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, req)
	})
}
