package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lukasmc/cefnav/internal/api"
	"github.com/lukasmc/cefnav/internal/api/handlers"
	"github.com/lukasmc/cefnav/internal/catalog"
	"github.com/lukasmc/cefnav/internal/external/yahoo"
	"github.com/lukasmc/cefnav/internal/report"
	"github.com/lukasmc/cefnav/internal/runner"
	"github.com/lukasmc/cefnav/internal/scheduler"
	"github.com/lukasmc/cefnav/pkg/config"
	"github.com/lukasmc/cefnav/pkg/httputil"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                        - Health check
  POST /api/report/run                - Trigger a report run
  GET  /api/report/progress           - Run-state snapshot
  GET  /api/report/progress/ws        - Progress event stream (websocket)
  GET  /api/report/download/{name}    - Download a generated report
  GET  /api/catalog                   - Loaded ticker catalog

Example:
  cefnav serve
  cefnav serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if servePort != "" {
		cfg.Port = servePort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Create HTTP client. All remote fetches are single-shot: a failed
	// catalog download surfaces as the run's fatal error, never a retry.
	httpClient := httputil.New(cfg, log).DisableRetry()

	// 4. Create collaborators
	yahooClient := yahoo.NewClient(httputil.New(cfg, log), log, cfg.Yahoo)
	catalogLoader := catalog.NewLoader(httpClient, log, cfg.Catalog.URL)
	reportWriter := report.NewWriter(cfg.OutputDir, log)

	// 5. Create runner
	run := runner.New(catalogLoader, yahooClient, reportWriter, log)

	// 6. Create handlers and router
	reportHandler := handlers.NewReportHandler(run, cfg.OutputDir, log)
	catalogHandler := handlers.NewCatalogHandler(catalogLoader, log)
	router := api.NewRouter(reportHandler, catalogHandler, log)

	// 7. Create server
	server := api.New(cfg, log, router)

	// 8. Optional daily report schedule
	var sched *scheduler.Scheduler
	if cfg.Schedule.Enabled {
		sched = scheduler.New(log)
		if err := sched.AddJob(scheduler.NewDailyReportJob(run, cfg.Schedule.Spec)); err != nil {
			return fmt.Errorf("schedule daily report: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

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
