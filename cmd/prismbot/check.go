package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/config"
	"github.com/nerimoe/prismbot/internal/confirm"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Check connectivity to the access/billing service",
	Long:    `Check that the configured API base URL answers and, when the redis confirmation backend is configured, that redis is reachable.`,
	Example: `  prismbot -c config.yaml check`,
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	cfg, err := config.Load(configPath)
	if err != nil {
		red.Fprintf(os.Stderr, "✗ configuration: %v\n", err)
		return err
	}
	green.Fprintf(os.Stdout, "✓ configuration loaded: %s\n", configPath)

	apiClient, err := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: config.Duration(cfg.API.Timeout, 10*time.Second),
	}, setupLogger(cfg.Logging))
	if err != nil {
		red.Fprintf(os.Stderr, "✗ api client: %v\n", err)
		return err
	}

	cyan.Fprintf(os.Stdout, "checking %s ...\n", cfg.API.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	active, err := apiClient.ListActive(ctx)
	if err != nil {
		red.Fprintf(os.Stderr, "✗ api: %v\n", err)
		return err
	}
	green.Fprintf(os.Stdout, "✓ api answered in %s (%d active occupants)\n",
		time.Since(start).Round(time.Millisecond), len(active))

	if cfg.Confirm.Backend == "redis" {
		store, err := confirm.NewRedis(confirm.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			red.Fprintf(os.Stderr, "✗ redis: %v\n", err)
			return err
		}
		_ = store.Close()
		green.Fprintf(os.Stdout, "✓ redis reachable at %s\n", cfg.Redis.Addr)
	}

	fmt.Fprintln(os.Stdout, "all checks passed")
	return nil
}
