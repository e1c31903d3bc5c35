// Package cmd - serve command
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"infra-review/api"
	"infra-review/internal/config"
)

var serveListen string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the analyzers over HTTP.

Endpoints:
  POST /v1/analyze/module
  POST /v1/review/terraform
  POST /v1/review/workflow
  GET  /v1/healthz
  GET  /v1/version

Examples:
  infra-review serve
  infra-review serve --listen :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if serveListen != "" {
		cfg.API.Listen = serveListen
	}

	server := api.NewServer(version, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sigCh:
		fmt.Println("\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
