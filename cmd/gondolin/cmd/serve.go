package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/needlesslygrim/gondolin/internal/config"
	"github.com/needlesslygrim/gondolin/internal/handlers"
	"github.com/needlesslygrim/gondolin/internal/logging"
	"github.com/needlesslygrim/gondolin/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query page and HTTP API",
	Long: `Serve the query page and the HTTP API against the local store.

The server holds the instance lock for its whole lifetime. On SIGINT or
SIGTERM it finishes the in-flight request, syncs the store to disk,
releases the lock, and exits.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(gondolinHome())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.Setup(cfg.Log.Level)

	lck, err := acquireLock()
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		releaseLock(lck)
		return err
	}
	metrics.RecordsTotal.Set(float64(s.Len()))

	router := handlers.NewRouter(&handlers.Dependencies{
		Store:  s,
		Logger: logger,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ServerAddr(), "store", s.Path())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		logger.Info("shutting down server")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	// Let the in-flight request finish before touching the store.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	if err := s.Sync(); err != nil {
		releaseLock(lck)
		if runErr != nil {
			return runErr
		}
		return fmt.Errorf("sync store to disk: %w", err)
	}

	if err := releaseLock(lck); err != nil && runErr == nil {
		runErr = err
	}

	if runErr == nil {
		logger.Info("server stopped")
	}
	return runErr
}
