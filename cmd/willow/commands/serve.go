package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/willowtrade/willow/internal/api"
	"github.com/willowtrade/willow/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health              - Health check
  GET  /api/results/latest  - Latest screening result
  GET  /api/results         - List saved screening results
  POST /api/screen          - Trigger a screening run
  GET  /dashboards/         - Rendered HTML dashboards

Example:
  go run ./cmd/willow serve
  go run ./cmd/willow serve --port 8090`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := newLogger(cfg)
	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
	}).Info("Initializing API server")

	// 3. Create screener and handler
	runner := newRunner(cfg, log)
	resultsHandler := handlers.NewResultsHandler(cfg.ResultsDir(), runner, log)

	// 4. Create router and server
	router := api.NewRouter(resultsHandler, cfg.DashboardsDir(), log)
	server := api.New(cfg, log, router)

	// 5. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/results/latest")
	fmt.Println("  GET  /api/results")
	fmt.Println("  POST /api/screen")
	fmt.Println("  GET  /dashboards/")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
