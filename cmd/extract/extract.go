package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/octobees/siret-extractor/internal/config"
	"github.com/octobees/siret-extractor/internal/logging"
	"github.com/octobees/siret-extractor/internal/service"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <hostname>",
		Short: "Extract the identifiers published by a website",
		Long: `Extract resolves the hostname, crawls its sitemaps (or its homepage when
it has none) and prints the extraction result as JSON.

Settings are read from the environment and SIRET_EXTRACTOR_CONFIG like the
API server; flags override them.

Examples:
  siret-extractor extract example.fr
  siret-extractor extract --timeout 10s --blacklist 123456789 example.fr`,
		Args: cobra.ExactArgs(1),
		RunE: runExtractCmd,
	}

	cmd.Flags().DurationP("timeout", "t", 0, "Timeout for each page fetch")
	cmd.Flags().IntP("concurrency", "c", 0, "Number of pages fetched at once")
	cmd.Flags().StringSlice("blacklist", nil, "Identifiers to ignore")
	cmd.Flags().String("registry-url", "", "Company registry base URL")

	return cmd
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if getVerboseFlag(cmd) {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := service.NewExtractServiceFromConfig(cfg, logger).Extract(ctx, args[0])
	if err != nil {
		return fmt.Errorf("extract %s: %w", args[0], err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// buildConfig loads the shared configuration and applies the flags set on cmd.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		if cfg.FetchTimeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.CrawlConcurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("blacklist") {
		if cfg.Blacklist, err = flags.GetStringSlice("blacklist"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("registry-url") {
		if cfg.RegistryURL, err = flags.GetString("registry-url"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if cfg.RegistryURL == "" {
		return nil, fmt.Errorf("configuration error: registry url must not be empty")
	}
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
