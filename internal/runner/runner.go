package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lukasmc/cefnav/internal/contracts"
	"github.com/lukasmc/cefnav/internal/pricing"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// ErrRunActive is returned when a run is requested while one is in flight
var ErrRunActive = errors.New("a report run is already active")

// CatalogLoader supplies the session's ticker pairs
type CatalogLoader interface {
	Load(ctx context.Context) ([]contracts.TickerPair, error)
}

// MarketData supplies price series and fund metadata per ticker
type MarketData interface {
	Chart(ctx context.Context, symbol string, from, to time.Time) ([]contracts.PriceBar, error)
	Summary(ctx context.Context, symbol string) (contracts.FundMetadata, error)
}

// ReportWriter materializes a finished report as a file
type ReportWriter interface {
	Write(rep contracts.Report) (string, error)
}

// Progress is one per-row progress event
type Progress struct {
	Ticker string `json:"ticker"`
	Done   int    `json:"done"`
	Total  int    `json:"total"`
}

// State is a snapshot of the runner for the progress API
type State struct {
	Running        bool   `json:"running"`
	Done           int    `json:"done"`
	Total          int    `json:"total"`
	LastReportDate string `json:"last_report_date,omitempty"`
	LastReportFile string `json:"last_report_file,omitempty"`
}

// Runner executes valuation runs: one catalog pass, one row per pair,
// strictly sequential in catalog order.
type Runner struct {
	catalog CatalogLoader
	market  MarketData
	writer  ReportWriter
	logger  *logger.Logger

	mu          sync.Mutex
	state       State
	subscribers map[chan Progress]struct{}
}

// New creates a runner from its collaborators
func New(catalog CatalogLoader, market MarketData, writer ReportWriter, log *logger.Logger) *Runner {
	return &Runner{
		catalog:     catalog,
		market:      market,
		writer:      writer,
		logger:      log,
		subscribers: make(map[chan Progress]struct{}),
	}
}

// Run executes one valuation run for the target date and writes the
// report file. Per-ticker data gaps null the affected fields; only a
// catalog failure or context cancellation aborts the run. Returns the
// report and the written file path.
func (r *Runner) Run(ctx context.Context, target time.Time) (contracts.Report, string, error) {
	if err := r.begin(); err != nil {
		return contracts.Report{}, "", err
	}
	defer r.end()

	pairs, err := r.catalog.Load(ctx)
	if err != nil {
		return contracts.Report{}, "", fmt.Errorf("catalog load failed: %w", err)
	}

	r.setTotal(len(pairs))
	from, to := pricing.Window(target)

	rows := make([]contracts.ReportRow, 0, len(pairs))
	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return contracts.Report{}, "", fmt.Errorf("run cancelled: %w", err)
		}

		rows = append(rows, r.processPair(ctx, pair, target, from, to))
		r.advance(pair.Fund, i+1, len(pairs))
	}

	rep := contracts.Report{
		Date:        target.Format(pricing.DateLayout),
		Rows:        rows,
		GeneratedAt: time.Now(),
	}

	path, err := r.writer.Write(rep)
	if err != nil {
		return contracts.Report{}, "", fmt.Errorf("report write failed: %w", err)
	}

	r.finish(rep.Date, path)
	r.logger.WithFields(map[string]interface{}{
		"date": rep.Date,
		"rows": len(rows),
		"path": path,
	}).Info("Report run completed")

	return rep, path, nil
}

// processPair produces one report row; every provider failure here is
// absorbed into null fields
func (r *Runner) processPair(ctx context.Context, pair contracts.TickerPair, target, from, to time.Time) contracts.ReportRow {
	fundClose := r.lookupClose(ctx, pair.Fund, target, from, to)
	navClose := r.lookupClose(ctx, pair.NAV, target, from, to)

	meta, err := r.market.Summary(ctx, pair.Fund)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", pair.Fund).Warn("Metadata fetch failed, fields stay null")
		meta = contracts.FundMetadata{}
	}

	return pricing.ComputeRow(pair, target, meta, fundClose, navClose)
}

// lookupClose fetches the windowed series and picks the exact-date close
func (r *Runner) lookupClose(ctx context.Context, symbol string, target, from, to time.Time) *float64 {
	series, err := r.market.Chart(ctx, symbol, from, to)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", symbol).Warn("Price fetch failed, close stays null")
		return nil
	}

	price, ok := pricing.LookupClose(series, target)
	if !ok {
		return nil
	}
	return &price
}

// State returns a snapshot of the runner
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers a progress listener. The returned cancel func must
// be called when the listener goes away. Slow listeners drop events.
func (r *Runner) Subscribe() (<-chan Progress, func()) {
	ch := make(chan Progress, 16)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		delete(r.subscribers, ch)
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Runner) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Running {
		return ErrRunActive
	}
	r.state.Running = true
	r.state.Done = 0
	r.state.Total = 0
	return nil
}

func (r *Runner) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Running = false
}

func (r *Runner) setTotal(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Total = total
}

// advance records per-row progress and broadcasts it to subscribers
func (r *Runner) advance(ticker string, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Done = done
	event := Progress{Ticker: ticker, Done: done, Total: total}
	for ch := range r.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (r *Runner) finish(date, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.LastReportDate = date
	r.state.LastReportFile = path
}
