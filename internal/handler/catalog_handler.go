package handler

import (
	"net/http"
	"strings"

	"waw-esim/internal/catalog"

	"github.com/rs/zerolog"
)

// CatalogHandler handles plan and payment-method requests.
type CatalogHandler struct {
	provider catalog.Provider
	logger   zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(provider catalog.Provider, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		provider: provider,
		logger:   logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListPlans handles GET /api/plans requests.
func (h *CatalogHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	plans, err := h.provider.ListPlans(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plans)
}

// GetPlan handles GET /api/plans/{id} requests.
func (h *CatalogHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/plans/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "plan ID is required", h.logger)
		return
	}

	plan, err := h.provider.GetPlan(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// ListPaymentMethods handles GET /api/payment-methods requests.
func (h *CatalogHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	methods, err := h.provider.ListPaymentMethods(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, methods)
}
