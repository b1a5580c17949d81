package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lukasmc/cefnav/internal/catalog"
	"github.com/lukasmc/cefnav/internal/external/yahoo"
	"github.com/lukasmc/cefnav/internal/pricing"
	"github.com/lukasmc/cefnav/internal/report"
	"github.com/lukasmc/cefnav/internal/runner"
	"github.com/lukasmc/cefnav/pkg/config"
	"github.com/lukasmc/cefnav/pkg/httputil"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run a one-shot discount report",
	Long: `Pulls closing prices for every catalog pair on the valuation
date, computes discounts, and writes the spreadsheet to the output
directory.

Example:
  cefnav report
  cefnav report --date 2024-07-03`,
	RunE: runReport,
}

var reportDate string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDate, "date", "", "valuation date YYYY-MM-DD (default today)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Keep stdout readable for the per-row progress lines
	cfg.LogFormat = "console"
	if !verbose {
		cfg.LogLevel = "warn"
	}

	log := logger.New(cfg)

	target := time.Now()
	if reportDate != "" {
		target, err = time.Parse(pricing.DateLayout, reportDate)
		if err != nil {
			return fmt.Errorf("invalid --date (expected YYYY-MM-DD): %w", err)
		}
	}

	// Single-shot fetches everywhere: a failed catalog download is fatal
	httpClient := httputil.New(cfg, log).DisableRetry()
	yahooClient := yahoo.NewClient(httputil.New(cfg, log), log, cfg.Yahoo)
	catalogLoader := catalog.NewLoader(httpClient, log, cfg.Catalog.URL)
	reportWriter := report.NewWriter(cfg.OutputDir, log)
	run := runner.New(catalogLoader, yahooClient, reportWriter, log)

	PrintSeparator()
	fmt.Printf("  Closed-End Fund Data  %s\n", target.Format(pricing.DateLayout))
	PrintSeparator()

	// Progress lines, one per processed row
	events, cancel := run.Subscribe()
	defer cancel()

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-events:
				PrintProgress("report", fmt.Sprintf("Processed %s", ev.Ticker), ev.Done, ev.Total)
			case <-quit:
				// Drain whatever is still buffered, then exit
				for {
					select {
					case ev := <-events:
						PrintProgress("report", fmt.Sprintf("Processed %s", ev.Ticker), ev.Done, ev.Total)
					default:
						return
					}
				}
			}
		}
	}()

	start := time.Now()
	rep, path, err := run.Run(context.Background(), target)
	close(quit)
	<-done
	if err != nil {
		return fmt.Errorf("report run failed: %w", err)
	}

	fmt.Println()
	PrintSuccess(fmt.Sprintf("NAV data pull complete: %d rows in %.2fs", len(rep.Rows), time.Since(start).Seconds()))
	fmt.Printf("Report written to %s\n", path)
	return nil
}
