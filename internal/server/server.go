package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/core/schedule"
	"github.com/misterkoko92/asf-benev/pkg/db"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API over the planning store.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      db.Database
	reconciler *schedule.Reconciler
	httpServer *http.Server
}

// New builds the server with its router wired up.
func New(cfg *config.Config, logger *zap.Logger, store db.Database) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		reconciler: schedule.NewReconciler(store, logger),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
