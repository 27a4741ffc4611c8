package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentcortex/agentmemory/internal/api"
	"github.com/agentcortex/agentmemory/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		cfg, err := config.Load(configPath)
		if err != nil {
			fatal(err)
		}

		server := api.NewServer(svc, cfg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.StartWithContext(ctx, 10*time.Second); err != nil {
			fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
