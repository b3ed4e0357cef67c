/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/prodfile/pkg/api"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the prodfile REST API server.

Requests must carry the X-API-Key header when security.api_key is set in the
config file. Prometheus metrics are served unauthenticated at /metrics.

Examples:
  prodfile serve
  prodfile serve --port 9000 --bind 0.0.0.0
  prodfile serve --config ./prodfile.yaml --file ./products.dat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if sess.rt == nil {
				return errors.New("store not found in context")
			}
			cfg := sess.cfg

			// Override config with command line flags if provided
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if container == nil {
				return errors.New("dependency container not initialized")
			}

			if cfg.Logging.Level == "debug" {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			}
			if cfg.Security.APIKey == "" {
				cmd.Printf("Warning: no API key configured, the API is unauthenticated\n")
			}

			cmd.Printf("Starting prodfile server on %s\n", cfg.Addr())
			cmd.Printf("Data file: %s\n", cfg.DataFile)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			starter := container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(ctx, sess.rt.Dependencies(), api.ServerConfig{
				Bind:           cfg.Bind,
				Port:           cfg.Port,
				APIKey:         cfg.Security.APIKey,
				RequestLogging: cfg.Logging.Level == "debug" || cfg.Logging.Level == "info" || cfg.Logging.Level == "",
			})
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key for authentication (overrides security.api_key)")

	return serveCmd
}
