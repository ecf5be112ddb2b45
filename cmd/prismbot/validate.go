package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nerimoe/prismbot/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the prismbot configuration file for syntax and semantic errors.`,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation failed: %v\n", err)
		return err
	}

	fmt.Fprintf(os.Stdout, "✅ Configuration is valid: %s\n", configPath)

	yellow := color.New(color.FgYellow)
	yellow.Fprintf(os.Stdout, "   api:      %s (timeout %s, retries %d)\n", cfg.API.BaseURL, cfg.API.Timeout, cfg.API.Retries)
	yellow.Fprintf(os.Stdout, "   confirm:  %s backend, %s window\n", cfg.Confirm.Backend, cfg.Confirm.TTL)
	if cfg.Metrics.Enabled {
		yellow.Fprintf(os.Stdout, "   metrics:  :%d\n", cfg.Metrics.Port)
	} else {
		yellow.Fprintf(os.Stdout, "   metrics:  disabled\n")
	}

	return nil
}
