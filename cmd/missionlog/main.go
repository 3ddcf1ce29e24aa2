package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fentz26/missionlog/internal/api"
	"github.com/fentz26/missionlog/internal/config"
	"github.com/fentz26/missionlog/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "missionlog",
	Short: "missionlog - mission history viewer",
	Long: `missionlog keeps the history of finished missions and lets you filter,
sort and summarize it from the terminal, a TUI or an HTTP API.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
	dbPath     string
	apiAddr    string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger = logging.Nop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(config.Dir(), "config.yaml"), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "", "Read results from this API server instead of the database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the missionlog version",
	// version needs no config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "missionlog %s\n", api.Version)
	},
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyOverrides(loaded, cmd)
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = loaded

	l, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// applyOverrides copies explicitly set persistent flags over cfg.
func applyOverrides(c *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("api") {
		c.APIAddr = apiAddr
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
