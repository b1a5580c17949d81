package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lukasmc/cefnav/internal/catalog"
	"github.com/lukasmc/cefnav/pkg/config"
	"github.com/lukasmc/cefnav/pkg/httputil"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch and print the ticker catalog",
	Long: `Downloads the remote ticker catalog, drops incomplete rows, and
prints the valid fund/NAV pairs. Useful for validating catalog edits
before a report run.`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.LogFormat = "console"
	if !verbose {
		cfg.LogLevel = "warn"
	}

	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()
	loader := catalog.NewLoader(httpClient, log, cfg.Catalog.URL)

	pairs, err := loader.Load(context.Background())
	if err != nil {
		return fmt.Errorf("catalog load failed: %w", err)
	}

	PrintSeparator()
	fmt.Printf("  %-8s %-10s %s\n", "Fund", "NAV", "Fund Type")
	PrintSeparator()
	for _, pair := range pairs {
		fmt.Printf("  %-8s %-10s %s\n", pair.Fund, pair.NAV, pair.FundType)
	}
	PrintSeparator()
	PrintSuccess(fmt.Sprintf("%d valid pairs", len(pairs)))
	return nil
}
