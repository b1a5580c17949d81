package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lukasmc/cefnav/internal/contracts"
	"github.com/lukasmc/cefnav/pkg/config"
	"github.com/lukasmc/cefnav/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

type testJob struct {
	name     string
	schedule string
	runs     chan struct{}
	err      error
}

func (j *testJob) Name() string     { return j.name }
func (j *testJob) Schedule() string { return j.schedule }
func (j *testJob) Run(ctx context.Context) error {
	if j.runs != nil {
		j.runs <- struct{}{}
	}
	return j.err
}

func TestAddJob(t *testing.T) {
	s := New(testLogger())

	job := &testJob{name: "daily_report", schedule: "0 0 18 * * MON-FRI"}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob() failed: %v", err)
	}

	if err := s.AddJob(job); err == nil {
		t.Error("Expected error adding duplicate job")
	}

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0] != "daily_report" {
		t.Errorf("Jobs() = %v, want [daily_report]", jobs)
	}
}

func TestAddJobInvalidSchedule(t *testing.T) {
	s := New(testLogger())

	job := &testJob{name: "bad", schedule: "not a cron spec"}
	if err := s.AddJob(job); err == nil {
		t.Error("Expected error for invalid schedule")
	}
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(testLogger())

	runs := make(chan struct{}, 1)
	job := &testJob{name: "daily_report", schedule: "@daily", runs: runs, err: errors.New("provider down")}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob() failed: %v", err)
	}

	if err := s.RunJob("daily_report"); err != nil {
		t.Fatalf("RunJob() failed: %v", err)
	}

	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("Job did not run")
	}

	// The result lands in history after Run returns
	deadline := time.Now().Add(time.Second)
	for {
		history, err := s.History("daily_report")
		if err != nil {
			t.Fatalf("History() failed: %v", err)
		}
		if len(history.Results) > 0 {
			result := history.Results[0]
			if result.Success {
				t.Error("Expected failed result")
			}
			if result.Error != "provider down" {
				t.Errorf("Expected error message, got %q", result.Error)
			}
			if len(history.FailedResults()) != 1 {
				t.Errorf("Expected 1 failed result")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for job history")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunJobUnknown(t *testing.T) {
	s := New(testLogger())
	if err := s.RunJob("nope"); err == nil {
		t.Error("Expected error for unknown job")
	}
}

func TestJobHistoryCap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: fmt.Sprintf("r%d", i), Success: true})
	}

	if len(h.Results) != 100 {
		t.Errorf("Expected history capped at 100, got %d", len(h.Results))
	}

	latest := h.LatestResults(5)
	if len(latest) != 5 {
		t.Fatalf("Expected 5 latest results, got %d", len(latest))
	}
	if latest[4].JobName != "r149" {
		t.Errorf("Expected newest result last, got %s", latest[4].JobName)
	}
}

type recordingRunner struct {
	ran chan time.Time
}

func (r *recordingRunner) Run(ctx context.Context, target time.Time) (contracts.Report, string, error) {
	r.ran <- target
	return contracts.Report{}, "", nil
}

func TestDailyReportJob(t *testing.T) {
	rr := &recordingRunner{ran: make(chan time.Time, 1)}
	job := NewDailyReportJob(rr, "0 0 18 * * MON-FRI")

	if job.Name() != "daily_report" {
		t.Errorf("Name() = %q", job.Name())
	}
	if job.Schedule() != "0 0 18 * * MON-FRI" {
		t.Errorf("Schedule() = %q", job.Schedule())
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	target := <-rr.ran
	if time.Since(target) > time.Minute {
		t.Errorf("Expected target near now, got %v", target)
	}
}
