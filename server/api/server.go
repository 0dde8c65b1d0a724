package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/remoteview/renderer/server/api/middleware"
	"github.com/remoteview/renderer/x/client"
)

// Server exposes health, stats and metrics for a running renderer client
// over HTTP.
type Server struct {
	cfg    Config
	log    zerolog.Logger
	client client.Client
	router *mux.Router
	http   *http.Server
}

// NewServer builds an API server bound to the given renderer client.
func NewServer(log zerolog.Logger, cfg Config, c client.Client) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log.With().Str("component", "api").Logger(),
		client: c,
		router: mux.NewRouter(),
	}

	s.router.Use(
		middleware.RequestID(),
		middleware.Recover(s.log),
		middleware.Logger(s.log),
	)
	s.registerRoutes()

	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handlers.CompressHandler(s.router),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	return s
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := new(net.ListenConfig).Listen(ctx, "tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
