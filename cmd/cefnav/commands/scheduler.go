package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lukasmc/cefnav/internal/catalog"
	"github.com/lukasmc/cefnav/internal/external/yahoo"
	"github.com/lukasmc/cefnav/internal/report"
	"github.com/lukasmc/cefnav/internal/runner"
	"github.com/lukasmc/cefnav/internal/scheduler"
	"github.com/lukasmc/cefnav/pkg/config"
	"github.com/lukasmc/cefnav/pkg/httputil"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the report schedule",
	Long: `Runs the scheduler daemon or inspects its jobs.

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - run a job immediately and wait for it
  status  - show job run history

Example:
  cefnav scheduler start
  cefnav scheduler run daily_report`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and keeps it running in the foreground.

The daily report job fires on SCHEDULE_SPEC (default: weekdays 18:00,
after US market close). Stop with Ctrl+C.`,
		RunE: runSchedulerDaemon,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listSchedulerJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job run history",
		RunE:  showSchedulerStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

// buildScheduler wires a scheduler with the daily report job registered
func buildScheduler() (*scheduler.Scheduler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.LogFormat = "console"
	if !verbose {
		cfg.LogLevel = "warn"
	}

	log := logger.New(cfg)

	// Single-shot fetches everywhere: a failed catalog download is fatal
	httpClient := httputil.New(cfg, log).DisableRetry()
	yahooClient := yahoo.NewClient(httputil.New(cfg, log), log, cfg.Yahoo)
	catalogLoader := catalog.NewLoader(httpClient, log, cfg.Catalog.URL)
	reportWriter := report.NewWriter(cfg.OutputDir, log)
	run := runner.New(catalogLoader, yahooClient, reportWriter, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(scheduler.NewDailyReportJob(run, cfg.Schedule.Spec)); err != nil {
		return nil, fmt.Errorf("schedule daily report: %w", err)
	}

	return sched, nil
}

func runSchedulerDaemon(cmd *cobra.Command, args []string) error {
	sched, err := buildScheduler()
	if err != nil {
		return err
	}

	sched.Start()

	PrintSuccess("Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")
	return nil
}

func listSchedulerJobs(cmd *cobra.Command, args []string) error {
	sched, err := buildScheduler()
	if err != nil {
		return err
	}

	fmt.Println("Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, err := buildScheduler()
	if err != nil {
		return err
	}

	fmt.Printf("Running job: %s\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob executes asynchronously; wait for its result to land
	for {
		history, err := sched.History(jobName)
		if err != nil {
			return err
		}

		if results := history.LatestResults(1); len(results) == 1 {
			result := results[0]
			if !result.Success {
				PrintError(fmt.Sprintf("Job %s failed: %s", jobName, result.Error))
				return fmt.Errorf("job %s failed", jobName)
			}
			PrintSuccess(fmt.Sprintf("Job %s completed in %.2fs", jobName, result.Duration.Seconds()))
			return nil
		}

		time.Sleep(200 * time.Millisecond)
	}
}

func showSchedulerStatus(cmd *cobra.Command, args []string) error {
	sched, err := buildScheduler()
	if err != nil {
		return err
	}

	fmt.Println("Job history:")
	fmt.Println()

	for _, name := range sched.Jobs() {
		history, err := sched.History(name)
		if err != nil {
			return err
		}

		total := len(history.Results)
		failures := len(history.FailedResults())

		fmt.Printf("📊 %s\n", name)
		fmt.Printf("   Total Runs: %d\n", total)
		fmt.Printf("   Failures: %d\n", failures)

		if results := history.LatestResults(1); len(results) == 1 {
			last := results[0]
			fmt.Printf("   Last Run: %s (success=%t, %.2fs)\n",
				last.StartTime.Format("2006-01-02 15:04:05"), last.Success, last.Duration.Seconds())
		}

		fmt.Println()
	}

	return nil
}
