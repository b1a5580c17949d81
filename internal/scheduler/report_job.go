package scheduler

import (
	"context"
	"time"

	"github.com/lukasmc/cefnav/internal/contracts"
)

// ReportRunner triggers a valuation run for a target date
type ReportRunner interface {
	Run(ctx context.Context, target time.Time) (contracts.Report, string, error)
}

// DailyReportJob runs the discount report for the current date on a
// cron schedule. The default schedule fires after US market close on
// weekdays, so "today" is a trading day with a settled close.
type DailyReportJob struct {
	runner   ReportRunner
	schedule string
}

// NewDailyReportJob creates the daily report job
func NewDailyReportJob(runner ReportRunner, schedule string) *DailyReportJob {
	return &DailyReportJob{
		runner:   runner,
		schedule: schedule,
	}
}

// Name returns the job name
func (j *DailyReportJob) Name() string {
	return "daily_report"
}

// Schedule returns the cron schedule expression
func (j *DailyReportJob) Schedule() string {
	return j.schedule
}

// Run executes one report pull for today
func (j *DailyReportJob) Run(ctx context.Context) error {
	_, _, err := j.runner.Run(ctx, time.Now())
	return err
}
