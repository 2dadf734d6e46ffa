// README: API gateway; wraps the router with CORS and runs the HTTP server until ctx ends.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"trailmate/internal/http/handlers"
	"trailmate/internal/infra"
)

const shutdownTimeout = 10 * time.Second

type ServerDeps struct {
	Dialogue    handlers.Dialogue
	Verifier    infra.TokenVerifier
	Logger      *slog.Logger
	CORSOrigins []string
}

type Server struct {
	dialogue    handlers.Dialogue
	verifier    infra.TokenVerifier
	logger      *slog.Logger
	corsOrigins []string
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		dialogue:    deps.Dialogue,
		verifier:    deps.Verifier,
		logger:      deps.Logger,
		corsOrigins: deps.CORSOrigins,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if len(s.corsOrigins) == 0 {
		s.corsOrigins = []string{"*"}
	}
	return s
}

func (s *Server) Routes() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(NewRouter(s.dialogue, s.verifier, s.logger))
}

// ListenAndServe serves on addr and shuts down gracefully once ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
