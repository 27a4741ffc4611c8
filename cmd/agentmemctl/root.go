package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentcortex/agentmemory/internal/logging"
	"github.com/agentcortex/agentmemory/internal/memory"
	"github.com/agentcortex/agentmemory/internal/store"
	"github.com/agentcortex/agentmemory/pkg/config"
)

// Version is set during build.
var Version = "0.1.0"

var (
	configPath string
	logLevel   string
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:     "agentmemctl",
	Short:   "Typed, persistent memory store for autonomous agents",
	Version: Version,
	Long: `agentmemctl stores and retrieves episodic, semantic, and procedural
memories for an agent, backed by a local SQLite database.

Examples:
  agentmemctl remember episode "Deployed the staging cluster"
  agentmemctl recall episode 1
  agentmemctl search episodes "cluster"
  agentmemctl important --min-importance 70`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// newService loads configuration, opens the store, and wires a memory
// façade for a single command invocation.
func newService() (*memory.Service, *store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init(logging.Config{Level: logLevel, Format: cfg.Logging.Format, Output: "stderr"})

	s, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	return memory.New(s, cfg), s, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
