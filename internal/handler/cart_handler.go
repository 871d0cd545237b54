package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"waw-esim/internal/flow"

	"github.com/rs/zerolog"
)

// CartHandler handles cart requests through the flow controller so derived
// totals and persistence behave exactly as in the embedded client.
type CartHandler struct {
	controller *flow.Controller
	logger     zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(controller *flow.Controller, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		controller: controller,
		logger:     logger.With().Str("handler", "cart").Logger(),
	}
}

// cartView is the response shape for every cart endpoint.
type cartView struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	ItemsCount int         `json:"itemsCount"`
}

// addItemRequest is the payload for POST /api/cart/items.
type addItemRequest struct {
	PlanID string `json:"planId"`
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	h.respond(w)
}

// AddItem handles POST /api/cart/items requests. Adding a plan the catalogue
// does not know is a silent no-op, mirroring the client policy.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "planId is required", h.logger)
		return
	}

	h.controller.AddToCart(r.Context(), req.PlanID)
	h.respond(w)
}

// RemoveItem handles DELETE /api/cart/items/{planId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	planID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if planID == "" {
		writeError(w, http.StatusBadRequest, "plan ID is required", h.logger)
		return
	}

	h.controller.RemoveFromCart(r.Context(), planID)
	h.respond(w)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	h.controller.ClearCart(r.Context())
	h.respond(w)
}

func (h *CartHandler) respond(w http.ResponseWriter) {
	snapshot := h.controller.Snapshot()
	writeJSON(w, http.StatusOK, cartView{
		Items:      snapshot.Cart,
		Total:      snapshot.CartTotal,
		ItemsCount: snapshot.CartItemsCount,
	})
}
