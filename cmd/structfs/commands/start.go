package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/structfs/structfs/internal/logger"
	"github.com/structfs/structfs/pkg/api"
	"github.com/structfs/structfs/pkg/config"
	"github.com/structfs/structfs/pkg/help"
	"github.com/structfs/structfs/pkg/mount"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the StructFS process",
	Long: `Start the StructFS process with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/structfs/config.yaml.

Examples:
  # Start with default config
  structfs start

  # Start with custom config file
  structfs start --config /etc/structfs/config.yaml

  # Override logging via environment variable
  STRUCTFS_LOGGING_LEVEL=DEBUG structfs start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println("StructFS - a structured data-access substrate")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))

	helpIndex := help.New()
	mounts := mount.New(helpIndex, mount.DefaultHelpPrefix)

	if err := config.ApplyBootstrap(ctx, mounts, cfg.Bootstrap); err != nil {
		return fmt.Errorf("failed to apply bootstrap mounts: %w", err)
	}
	logger.Info("Bootstrap mounts installed", "count", len(cfg.Bootstrap))

	var apiServer *api.Server
	serverDone := make(chan error, 1)
	if cfg.Server.IsEnabled() {
		apiConfig := api.APIConfig{
			Enabled:      cfg.Server.Enabled,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}
		apiServer = api.NewServer(apiConfig, mounts)
		logger.Info("Control server enabled", "port", cfg.Server.Port)

		go func() {
			serverDone <- apiServer.Start(ctx)
		}()
	} else {
		logger.Info("Control server disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("StructFS is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		if apiServer != nil {
			if err := <-serverDone; err != nil {
				logger.Error("Control server shutdown error", "error", err)
				return err
			}
		}
		logger.Info("StructFS stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Control server error", "error", err)
			return err
		}
		logger.Info("Control server stopped")
	}

	return nil
}
