package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/shared"
	"golang.org/x/oauth2"
)

// CallbackServer is the short-lived local HTTP server that waits for the sign-in redirect.
type CallbackServer struct {
	handler  *OAuthHandler
	listener net.Listener
	server   *http.Server
	logger   *log.Logger
	errs     chan error
}

// StartCallbackServer listens on addr and serves an [OAuthHandler] at path.
func StartCallbackServer(addr, path string, logger *log.Logger) (*CallbackServer, error) {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	handler := NewOAuthHandler(path)
	router := NewCallbackRouter(RequestLogger(logger), Recoverer(logger))
	router.Mount(handler)

	s := &CallbackServer{
		handler:  handler,
		listener: listener,
		server:   &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second},
		logger:   logger,
		errs:     make(chan error, 1),
	}

	go func() {
		logger.Info("starting callback server", "addr", listener.Addr().String(), "path", handler.path)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return s, nil
}

// URL returns the callback address the remote service should redirect to.
func (s *CallbackServer) URL() string {
	return "http://" + s.listener.Addr().String() + s.handler.path
}

// Wait blocks until the callback arrives, the server fails or ctx is done, then shuts the server down.
func (s *CallbackServer) Wait(ctx context.Context) (*oauth2.Token, error) {
	defer s.shutdown()

	var result OAuthResult
	select {
	case result = <-s.handler.Result():
	case err := <-s.errs:
		return nil, fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no sign-in callback received", shared.ErrTimeout)
		}
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil || result.Token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

func (s *CallbackServer) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
	}
}
