package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/lukasmc/cefnav/internal/contracts"
	"github.com/lukasmc/cefnav/internal/pricing"
	"github.com/lukasmc/cefnav/internal/report"
	"github.com/lukasmc/cefnav/internal/runner"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// ReportHandler handles report API endpoints
type ReportHandler struct {
	runner    *runner.Runner
	outputDir string
	logger    *logger.Logger
	upgrader  websocket.Upgrader
}

// NewReportHandler creates a new report handler
func NewReportHandler(run *runner.Runner, outputDir string, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		runner:    run,
		outputDir: outputDir,
		logger:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RunRequest represents a report run request
type RunRequest struct {
	Date string `json:"date"` // Optional: YYYY-MM-DD, defaults to today
}

// RunResponse represents a completed report run
type RunResponse struct {
	Status string                `json:"status"`
	Date   string                `json:"date"`
	File   string                `json:"file"`
	Rows   []contracts.ReportRow `json:"rows"`
}

// Run triggers a valuation run and blocks until it completes
// POST /api/report/run
func (h *ReportHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RunRequest
	if r.Body != nil {
		// An empty body means "run for today"
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	target := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(pricing.DateLayout, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
			return
		}
		target = parsed
	}

	rep, path, err := h.runner.Run(ctx, target)
	if err != nil {
		if errors.Is(err, runner.ErrRunActive) {
			respondError(w, http.StatusConflict, "A report run is already active")
			return
		}
		h.logger.WithError(err).Error("Report run failed")
		respondError(w, http.StatusBadGateway, "Report run failed")
		return
	}

	respondJSON(w, http.StatusOK, RunResponse{
		Status: "complete",
		Date:   rep.Date,
		File:   filepath.Base(path),
		Rows:   rep.Rows,
	})
}

// Progress returns the current run-state snapshot
// GET /api/report/progress
func (h *ReportHandler) Progress(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.runner.State())
}

// ProgressWS streams per-row progress events over a websocket
// GET /api/report/progress/ws
func (h *ReportHandler) ProgressWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.runner.Subscribe()
	defer cancel()

	// The client never sends data; the read pump exists to notice
	// disconnects, since r.Context() is not cancelled for a hijacked
	// connection.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Current state first so late subscribers catch up
	if err := conn.WriteJSON(h.runner.State()); err != nil {
		return
	}

	for {
		select {
		case <-gone:
			return
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

// Download serves a generated report file
// GET /api/report/download/{name}
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(mux.Vars(r)["name"])

	// Only files this service generates are downloadable
	if !strings.HasPrefix(name, "Closed_End_Fund_Data_") || !strings.HasSuffix(name, ".xlsx") {
		respondError(w, http.StatusNotFound, "Report file not found")
		return
	}

	path := filepath.Join(h.outputDir, name)
	if _, err := os.Stat(path); err != nil {
		respondError(w, http.StatusNotFound, "Report file not found")
		return
	}

	w.Header().Set("Content-Type", report.MIMEType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	http.ServeFile(w, r, path)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
