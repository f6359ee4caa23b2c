package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/fundwatch/internal/api"
	"github.com/jonesrussell/fundwatch/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

// serveCommand runs the HTTP API with the periodic ingestion scheduler.
func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the funding API server with scheduled ingestion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	deps, err := newCommandDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if err = deps.Storage.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	if deps.Runs != nil {
		if err = deps.Runs.EnsureSchema(ctx); err != nil {
			deps.Logger.Warn("run history schema setup failed", "error", err)
			deps.Runs = nil
		}
	}

	var history api.RunHistory
	if deps.Runs != nil {
		history = deps.Runs
	}
	router := api.SetupRouter(deps.Logger, deps.Storage, deps.Ingest, history)

	server := &http.Server{
		Addr:         deps.Config.Server.Address,
		Handler:      router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	var sched *scheduler.Scheduler
	if deps.Config.Scheduler.Enabled {
		sched = scheduler.New(deps.Logger, deps.Ingest, deps.Config.Scheduler.Schedule)
		if err = sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	errChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("http server listening", "address", server.Addr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serveErr := <-errChan:
		deps.Logger.Error("server error", "error", serveErr)
		return fmt.Errorf("server error: %w", serveErr)
	case sig := <-sigChan:
		deps.Logger.Info("shutdown signal received", "signal", sig.String())
	}

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}

	deps.Logger.Info("server stopped")
	return nil
}
