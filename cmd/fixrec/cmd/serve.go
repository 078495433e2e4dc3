/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gonap/gava/pkg/api"
	"github.com/gonap/gava/pkg/metrics"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port   int
		bind   string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the fixrec REST API server. Requests to /api/v1 must carry
the configured API key in the X-API-Key header; /metrics is open for scraping.

Examples:
  fixrec serve
  fixrec serve --port 9000 --bind 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Override config with command line flags if provided
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if cmd.Flags().Changed("bind") {
				a.cfg.Bind = bind
			}
			if cmd.Flags().Changed("api-key") {
				a.cfg.Security.APIKey = apiKey
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if a.cfg.Security.APIKey == "auto" {
				a.logger.Warn("no API key configured, run 'fixrec init' to generate one; authentication is disabled")
				a.cfg.Security.APIKey = ""
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(s, api.NewServerConfig(a.cfg), metrics.New(), a.logger)
			cmd.Printf("Starting fixrec server on %s:%d\n", a.cfg.Bind, a.cfg.Port)
			cmd.Printf("Data directory: %s\n", a.cfg.DataDir)
			return server.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Address to bind server to")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for client authentication")
	return cmd
}
