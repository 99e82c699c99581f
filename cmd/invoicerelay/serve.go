package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/env"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var host, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			if host == "" {
				host = env.GetEnv("APP_HOST", "localhost")
			}
			if port == "" {
				port = env.GetEnv("APP_PORT", "4000")
			}
			return runServe(cmd.Context(), settings, fmt.Sprintf("%s:%s", host, port))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default APP_HOST or localhost)")
	cmd.Flags().StringVar(&port, "port", "", "listen port (default APP_PORT or 4000)")

	return cmd
}

func runServe(ctx context.Context, settings *config.Settings, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApplication(settings)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
