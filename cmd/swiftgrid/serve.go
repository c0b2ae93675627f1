package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/meowmeowcode/swiftgrid/internal/config"
	"github.com/meowmeowcode/swiftgrid/internal/demo"
	"github.com/meowmeowcode/swiftgrid/internal/httpapi"
	"github.com/meowmeowcode/swiftgrid/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the people grid over HTTP",
		Long: `Serve the people grid over HTTP.

Settings are read from an optional config file and environment variables
prefixed with ` + config.EnvPrefix + `_, e.g. ` + config.EnvPrefix + `_SOURCE_DRIVER=sqlite3.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")
	return cmd
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if logger.ParseLevel(cfg.Log.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := openSource(ctx, cfg.Source, log)
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.Source.Driver, err)
	}
	defer source.close()

	grid := &httpapi.Grid[demo.Person]{
		Source:  source.source,
		Editor:  source.editor,
		Options: cfg.Options(),
		Columns: demo.Columns(),
		IDField: "id",
	}
	router := httpapi.NewRouter(httpapi.Conf{CORSOrigins: cfg.HTTP.CORSOrigins, Logger: log}, grid)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", cfg.HTTP.Addr, "driver", cfg.Source.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
