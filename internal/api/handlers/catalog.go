package handlers

import (
	"net/http"

	"github.com/lukasmc/cefnav/internal/runner"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// CatalogHandler handles catalog API endpoints
type CatalogHandler struct {
	loader runner.CatalogLoader
	logger *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(loader runner.CatalogLoader, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		loader: loader,
		logger: log,
	}
}

// Get returns the loaded ticker catalog
// GET /api/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pairs, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load catalog")
		respondError(w, http.StatusBadGateway, "Failed to load catalog")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(pairs),
		"pairs": pairs,
	})
}
