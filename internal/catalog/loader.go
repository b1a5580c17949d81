package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/lukasmc/cefnav/internal/contracts"
	"github.com/lukasmc/cefnav/pkg/httputil"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// Catalog column headers expected in the remote spreadsheet
const (
	colFund     = "Fund"
	colNAV      = "NAV"
	colFundType = "Fund Type"
)

// Loader fetches and caches the remote ticker catalog.
// The catalog is loaded once per process and kept in memory;
// invalidation happens only on restart.
type Loader struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string

	mu    sync.Mutex
	pairs []contracts.TickerPair // nil until the first successful load
}

// NewLoader creates a catalog loader for the given spreadsheet URL
func NewLoader(httpClient *httputil.Client, log *logger.Logger, url string) *Loader {
	return &Loader{
		httpClient: httpClient,
		logger:     log,
		url:        url,
	}
}

// Load returns the catalog's valid ticker pairs in spreadsheet order.
// The first successful load is cached; a failed load is not, so the next
// call retries the download. A load failure is fatal to the caller's run.
func (l *Loader) Load(ctx context.Context) ([]contracts.TickerPair, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pairs != nil {
		return l.pairs, nil
	}

	body, err := l.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	pairs, dropped, err := parseWorkbook(body)
	if err != nil {
		return nil, fmt.Errorf("catalog parse failed: %w", err)
	}

	l.pairs = pairs
	l.logger.WithFields(map[string]interface{}{
		"pairs":   len(pairs),
		"dropped": dropped,
	}).Info("Catalog loaded")

	return l.pairs, nil
}

// fetch downloads the raw spreadsheet bytes
func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	resp, err := l.httpClient.Get(ctx, l.url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	return body, nil
}

// parseWorkbook parses the catalog spreadsheet into ticker pairs.
// The first row is the header; rows missing Fund or NAV are dropped.
// Returns the valid pairs and the number of dropped rows.
func parseWorkbook(body []byte) ([]contracts.TickerPair, int, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook failed: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read rows failed: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("workbook sheet %q is empty", sheets[0])
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, 0, err
	}

	pairs := make([]contracts.TickerPair, 0, len(rows)-1)
	dropped := 0

	for _, row := range rows[1:] {
		pair := contracts.TickerPair{
			Fund:     cellAt(row, cols[colFund]),
			NAV:      cellAt(row, cols[colNAV]),
			FundType: cellAt(row, cols[colFundType]),
		}

		if !pair.IsValid() {
			dropped++
			continue
		}

		pairs = append(pairs, pair)
	}

	return pairs, dropped, nil
}

// headerIndex maps the expected column headers to their indices.
// "Fund Type" is optional; "Fund" and "NAV" are required.
func headerIndex(header []string) (map[string]int, error) {
	cols := map[string]int{
		colFund:     -1,
		colNAV:      -1,
		colFundType: -1,
	}

	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := cols[name]; ok {
			cols[name] = i
		}
	}

	if cols[colFund] < 0 || cols[colNAV] < 0 {
		return nil, fmt.Errorf("catalog header missing %q or %q column", colFund, colNAV)
	}

	return cols, nil
}

// cellAt returns the trimmed cell at index i, or "" when the row is short
// or the column is absent
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
