package catalog

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lukasmc/cefnav/pkg/config"
	"github.com/lukasmc/cefnav/pkg/httputil"
	"github.com/lukasmc/cefnav/pkg/logger"
)

func testHTTPClient(t *testing.T) (*httputil.Client, *logger.Logger) {
	t.Helper()
	cfg := &config.Config{
		Env:      "development",
		LogLevel: "error",
		Yahoo:    config.YahooConfig{Timeout: 5 * time.Second},
	}
	log := logger.New(cfg)
	return httputil.New(cfg, log).DisableRetry(), log
}

// buildWorkbook serializes rows into an xlsx workbook for test servers
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("Write workbook failed: %v", err)
	}
	return buf.Bytes()
}

func TestLoadDropsIncompleteRows(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"Fund", "NAV", "Fund Type"},
		{"PDI", "XPDIX", "Taxable Bond"},
		{"GOF", "XGOFX", "Taxable Bond"},
		{"BADROW", "", "Equity"}, // Missing NAV
		{"NCA", "XNCAX", "Muni Bond"},
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	client, log := testHTTPClient(t)
	loader := NewLoader(client, log, server.URL)

	pairs, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(pairs) != 3 {
		t.Fatalf("Expected 3 valid pairs, got %d", len(pairs))
	}

	// Spreadsheet order preserved
	wantFunds := []string{"PDI", "GOF", "NCA"}
	for i, want := range wantFunds {
		if pairs[i].Fund != want {
			t.Errorf("pairs[%d].Fund = %q, want %q", i, pairs[i].Fund, want)
		}
	}

	if pairs[0].NAV != "XPDIX" || pairs[0].FundType != "Taxable Bond" {
		t.Errorf("Unexpected first pair: %+v", pairs[0])
	}
}

func TestLoadIsMemoized(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"Fund", "NAV", "Fund Type"},
		{"PDI", "XPDIX", "Taxable Bond"},
	})

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write(body)
	}))
	defer server.Close()

	client, log := testHTTPClient(t)
	loader := NewLoader(client, log, server.URL)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := loader.Load(ctx); err != nil {
			t.Fatalf("Load() #%d failed: %v", i+1, err)
		}
	}

	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Errorf("Expected 1 catalog download, got %d", n)
	}
}

func TestLoadFailureIsNotCached(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"Fund", "NAV", "Fund Type"},
		{"PDI", "XPDIX", "Taxable Bond"},
	})

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(body)
	}))
	defer server.Close()

	client, log := testHTTPClient(t)
	loader := NewLoader(client, log, server.URL)

	ctx := context.Background()
	if _, err := loader.Load(ctx); err == nil {
		t.Fatal("Expected first Load() to fail")
	}

	pairs, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("Second Load() failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Errorf("Expected 1 pair after retried load, got %d", len(pairs))
	}
}

func TestLoadServerErrorIsNotRetried(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"Fund", "NAV", "Fund Type"},
		{"PDI", "XPDIX", "Taxable Bond"},
	})

	// A transient 503 must fail the load outright, not be papered over
	// by a second fetch
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(body)
	}))
	defer server.Close()

	client, log := testHTTPClient(t)
	loader := NewLoader(client, log, server.URL)

	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("Expected Load() to fail on a 503 response")
	}

	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Errorf("Expected a single catalog fetch, got %d", n)
	}
}

func TestParseWorkbookMissingHeader(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"Ticker", "Index"},
		{"PDI", "XPDIX"},
	})

	if _, _, err := parseWorkbook(body); err == nil {
		t.Error("Expected error for missing Fund/NAV header")
	}
}

func TestParseWorkbookExtraColumns(t *testing.T) {
	// Catalogs in the wild carry extra columns; only the three known
	// ones are read
	body := buildWorkbook(t, [][]interface{}{
		{"Fund", "Broad Category", "NAV", "Fund Type", "Geographic Focus"},
		{"PDI", "Fixed Income", "XPDIX", "Taxable Bond", "US"},
	})

	pairs, dropped, err := parseWorkbook(body)
	if err != nil {
		t.Fatalf("parseWorkbook() failed: %v", err)
	}
	if dropped != 0 {
		t.Errorf("Expected 0 dropped rows, got %d", dropped)
	}
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].NAV != "XPDIX" || pairs[0].FundType != "Taxable Bond" {
		t.Errorf("Unexpected pair: %+v", pairs[0])
	}
}
