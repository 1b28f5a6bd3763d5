package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meowafisha/meowmap/internal/config"
	"github.com/meowafisha/meowmap/internal/logger"
	"github.com/meowafisha/meowmap/internal/storage"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagConfig  string
	flagEnvFile string
	flagVerbose bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meowmap",
		Short: "MeowAfisha events map backend",
		Long: `Backend for the MeowAfisha events map of Kaliningrad.
Fetches events from the VK community wall, geocodes their venues,
serves the map API and announces new events to Telegram.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "~/.meowmap/config.yaml", "Path to the YAML config")
	cmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Path to an optional .env file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(
		newFetchCmd(),
		newServeCmd(),
		newListCmd(),
		newSearchCmd(),
		newNotifyCmd(),
		newICSCmd(),
	)

	return cmd
}

// loadConfig reads the config file, overlays the environment and sets
// up logging. Shared by every subcommand.
func loadConfig() (*config.Config, error) {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	if err := config.LoadEnv(flagEnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(expandHome(flagConfig))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}
	return cfg, nil
}

func openStorage(cfg *config.Config) (*storage.Storage, error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
