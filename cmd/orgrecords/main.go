package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/orgrecords/internal/config"
	"github.com/deppfellow/orgrecords/internal/database"
	"github.com/deppfellow/orgrecords/internal/handler"
	"github.com/deppfellow/orgrecords/internal/logger"
	"github.com/deppfellow/orgrecords/internal/repository"
	"github.com/deppfellow/orgrecords/internal/router"
	"github.com/deppfellow/orgrecords/internal/server"
	"github.com/deppfellow/orgrecords/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "orgrecords",
		Short:         "Department and employee records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  runServe,
		},
		schemaCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("orgrecords %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func schemaCommand() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the departments and employees tables",
	}

	schemaCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create both tables if they do not exist",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(cmd.Context(), func(ctx context.Context, repos *repository.Repositories) error {
					return repos.CreateTables(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "drop",
			Short: "Drop both tables if they exist",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(cmd.Context(), func(ctx context.Context, repos *repository.Repositories) error {
					return repos.DropTables(ctx)
				})
			},
		},
	)

	return schemaCmd
}

func setup() (*config.Config, *zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.Observability)
	return cfg, &log, nil
}

func withSession(ctx context.Context, fn func(context.Context, *repository.Repositories) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := fn(ctx, repository.NewRepositories(db)); err != nil {
		return err
	}

	log.Info().Msg("schema updated")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	// The API expects both tables to exist.
	if err := srv.NewSession().CreateTables(context.Background()); err != nil {
		_ = srv.DB.Close()
		return fmt.Errorf("failed to create tables: %w", err)
	}

	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			_ = srv.DB.Close()
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
