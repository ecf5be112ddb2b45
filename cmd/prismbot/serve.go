package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/bot"
	"github.com/nerimoe/prismbot/internal/command"
	"github.com/nerimoe/prismbot/internal/config"
	"github.com/nerimoe/prismbot/internal/confirm"
	"github.com/nerimoe/prismbot/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the prismbot command service",
	Long:  `Start the command service: connects to the access/billing API, exposes metrics, and reads commands from the dispatch boundary.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", version).
		Str("config", configPath).
		Msg("Starting prismbot")

	// Initialize API client
	apiClient, err := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: config.Duration(cfg.API.Timeout, 10*time.Second),
		Retries: cfg.API.Retries,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize API client: %w", err)
	}

	logger.Info().Str("base_url", cfg.API.BaseURL).Msg("API client initialized")

	// Initialize confirmation store
	confirmTTL := config.Duration(cfg.Confirm.TTL, confirm.DefaultTTL)
	confirmStore, err := openConfirmStore(cfg, confirmTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize confirmation store: %w", err)
	}

	logger.Info().
		Str("backend", cfg.Confirm.Backend).
		Dur("ttl", confirmTTL).
		Msg("Confirmation store initialized")

	// Initialize command service
	service := command.NewService(apiClient, confirmStore, command.Config{
		AdminAuthority: cfg.Auth.AdminAuthority,
		ConfirmTTL:     confirmTTL,
	}, logger)

	dispatcher := bot.NewDispatcher(logger)
	dispatcher.HandleAll(service.Commands())

	logger.Info().Int("admin_authority", cfg.Auth.AdminAuthority).Msg("Command service initialized")

	// Start metrics server
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(fmt.Sprintf(":%d", cfg.Metrics.Port), logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// Notify systemd that we're ready
	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Warn().Err(err).Msg("Failed to notify systemd")
	} else if sent {
		logger.Debug().Msg("Notified systemd: ready")
	}

	// Drive the dispatcher from stdin; the chat framework replaces this
	// adapter in deployment.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console := bot.NewConsole(dispatcher, os.Stdin, os.Stdout, logger)
	consoleDone := make(chan error, 1)
	go func() {
		consoleDone <- console.Run(ctx)
	}()

	logger.Info().Msg("Prismbot started, reading commands")

	// Wait for shutdown signal or console EOF
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-consoleDone:
		if err != nil {
			logger.Error().Err(err).Msg("Console adapter failed")
		} else {
			logger.Info().Msg("Console input closed, shutting down")
		}
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if metricsServer != nil {
		if err := metricsServer.Stop(); err != nil {
			logger.Error().Err(err).Msg("Failed to stop metrics server")
		}
	}

	if closer, ok := confirmStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close confirmation store")
		}
	}

	logger.Info().Msg("Prismbot stopped")
	return nil
}

// openConfirmStore builds the configured confirmation store backend.
func openConfirmStore(cfg *config.Config, ttl time.Duration) (confirm.Store, error) {
	switch cfg.Confirm.Backend {
	case "redis":
		return confirm.NewRedis(confirm.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      ttl,
		})
	default:
		return confirm.NewMemory(ttl), nil
	}
}
