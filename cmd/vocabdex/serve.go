package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chiTransport "github.com/kailas-cloud/vocabdex/internal/transport/chi"
	"github.com/kailas-cloud/vocabdex/internal/version"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			if port > 0 {
				a.cfg.HTTP.Port = port
			}
			return a.serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override http.port")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	a.logger.Info("Starting vocabdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("index_driver", cfg.Index.Driver),
	)

	if err := a.wire(ctx); err != nil {
		return err
	}
	if cfg.Database.MigrateOnStart {
		if _, err := a.migrate(ctx); err != nil {
			return err
		}
	}
	if err := a.awards.EnsureIndex(ctx); err != nil {
		return err
	}
	if a.tokens == nil {
		a.logger.Warn("auth.signing_key is empty; every caller is anonymous and writes are rejected")
	}

	var validator chiTransport.IdentityValidator
	if a.tokens != nil {
		validator = a.tokens
	}
	server := chiTransport.NewServer(a.awards, a.funders, a.health, validator, chiTransport.Options{
		MountPath: cfg.HTTP.MountPath,
		BaseURL:   cfg.Links.BaseURL,
	}, a.logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
