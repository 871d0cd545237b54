package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"waw-esim/internal/flow"
	"waw-esim/internal/model"
	"waw-esim/internal/order"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests. Order creation goes
// through the flow controller so the first-cart-entry and cart-clearing
// semantics match the embedded client; reads and activation hit the order
// service directly.
type OrderHandler struct {
	controller *flow.Controller
	service    order.Service
	logger     zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(controller *flow.Controller, service order.Service, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		controller: controller,
		service:    service,
		logger:     logger.With().Str("handler", "order").Logger(),
	}
}

// createOrderRequest is the payload for POST /api/orders. The plan comes from
// the first cart entry, not from the request.
type createOrderRequest struct {
	CustomerInfo    model.CustomerInfo   `json:"customerInfo"`
	ActivationInfo  model.ActivationInfo `json:"activationInfo"`
	PaymentMethodID string               `json:"paymentMethodId"`
}

// createOrderResponse mirrors the client's order result shape.
type createOrderResponse struct {
	Order       *model.Order `json:"order"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
}

// activateRequest is the payload for POST /api/orders/{id}/activate.
type activateRequest struct {
	ActivationInfo model.ActivationInfo `json:"activationInfo"`
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if !h.controller.CreateOrder(r.Context(), req.CustomerInfo, req.ActivationInfo, req.PaymentMethodID) {
		err := h.controller.LastError()
		if err == nil {
			writeError(w, http.StatusInternalServerError, "failed to create order", h.logger)
			return
		}
		writeDomainError(w, err, h.logger)
		return
	}

	snapshot := h.controller.Snapshot()
	writeJSON(w, http.StatusCreated, createOrderResponse{
		Order:       snapshot.CurrentOrder,
		RedirectURL: snapshot.RedirectURL,
	})
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	orderID := orderIDFromPath(r.URL.Path, "")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	ord, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ord)
}

// Status handles GET /api/orders/{id}/status requests.
func (h *OrderHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	orderID := orderIDFromPath(r.URL.Path, "/status")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	status, err := h.service.Status(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Activate handles POST /api/orders/{id}/activate requests.
func (h *OrderHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	orderID := orderIDFromPath(r.URL.Path, "/activate")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	ord, err := h.service.Activate(r.Context(), orderID, req.ActivationInfo)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ord)
}

// ConfirmPayment handles POST /api/orders/{id}/confirm-payment requests. It
// stands in for the external checkout provider's confirmation callback.
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	orderID := orderIDFromPath(r.URL.Path, "/confirm-payment")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	ord, err := h.service.ConfirmPayment(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ord)
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	orderID := orderIDFromPath(r.URL.Path, "/cancel")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	ord, err := h.service.Cancel(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ord)
}

// orderIDFromPath extracts the order ID from /api/orders/{id}<suffix>.
func orderIDFromPath(path, suffix string) string {
	id := strings.TrimPrefix(path, "/api/orders/")
	id = strings.TrimSuffix(id, suffix)
	return strings.Trim(id, "/")
}
