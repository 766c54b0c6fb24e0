package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectctl/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory project service",
		Long: `Run a project service that keeps projects in memory.

It implements the REST API the other commands talk to, plus /health and
Prometheus metrics on /metrics. Host and port come from the server section of
the config file (default localhost:3001).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(server.NewMemoryRepository(), a.logger, &server.Config{
				Host:      a.cfg.Server.Host,
				Port:      a.cfg.Server.Port,
				Telemetry: a.telemetry,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "serving on http://%s:%d\n", a.cfg.Server.Host, a.cfg.Server.Port)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info(ctx, "shutdown requested",
				zap.Duration("shutdown_timeout", a.cfg.Server.ShutdownTimeout.Duration()))

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
