// Package main implements the projectctl CLI for managing projects held by a
// remote project service.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectctl/internal/config"
	"github.com/fyrsmithlabs/projectctl/internal/logging"
	"github.com/fyrsmithlabs/projectctl/internal/remote"
	"github.com/fyrsmithlabs/projectctl/internal/store"
	"github.com/fyrsmithlabs/projectctl/internal/telemetry"
)

// version is set at build time.
var version = "dev"

func main() {
	a := &app{}
	if err := a.execute(a.rootCmd()); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every command.
type app struct {
	configPath string
	serverURL  string

	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "projectctl",
		Short: "Manage projects on a remote project service",
		Long: `projectctl keeps a local view of the projects held by a project service.
It lists, searches and sorts them, validates and creates new projects, and
deletes existing ones. After every change the full list is reloaded from the
service.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/projectctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.serverURL, "server", "", "project service URL (overrides remote.base_url)")

	rootCmd.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newRmCmd(a),
		newBoardCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads configuration and builds the logger and telemetry.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFile(a.configPath)
	if err != nil {
		return err
	}
	if a.serverURL != "" {
		cfg.Remote.BaseURL = strings.TrimRight(a.serverURL, "/")
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --server: %w", err)
		}
	}
	a.cfg = cfg

	logCfg, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	a.logger, err = logging.NewLoggerTo(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.logger.Debug(cmd.Context(), "configuration loaded",
		zap.String("base_url", cfg.Remote.BaseURL),
		logging.Secret("token", cfg.Remote.Token),
		zap.Bool("telemetry", cfg.Telemetry.Enabled))

	a.telemetry, err = telemetry.New(cmd.Context(), cfg.Telemetry,
		telemetry.WithVersion(version),
		telemetry.WithLogger(a.logger))
	if err != nil {
		return err
	}
	return nil
}

// execute runs cmd and then tears down, whether or not the command failed.
func (a *app) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	a.teardown(context.Background())
	return err
}

// teardown flushes telemetry and the logger.
func (a *app) teardown(ctx context.Context) {
	if err := a.telemetry.Shutdown(ctx); err != nil && a.logger != nil {
		a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// newStore wires the remote client into a store.
func (a *app) newStore() (*store.Store, error) {
	client, err := remote.New(a.cfg.Remote,
		remote.WithLogger(a.logger),
		remote.WithTelemetry(a.telemetry))
	if err != nil {
		return nil, err
	}
	return store.New(client, store.WithLogger(a.logger)), nil
}

// warnStale reports a change that was committed remotely but not reloaded.
func warnStale(w io.Writer, what string, err error) {
	fmt.Fprintf(w, "warning: %s, but the project list could not be reloaded: %v\n", what, err)
}
