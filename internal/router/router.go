package router

import (
	"net/http"
	"strings"

	"waw-esim/internal/handler"
	"waw-esim/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Plan routes
	planRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/plans" && r.URL.Path != "/api/plans/" {
			catalogHandler.GetPlan(w, r)
			return
		}
		catalogHandler.ListPlans(w, r)
	}
	mux.HandleFunc("/api/plans", planRouteHandler)
	mux.HandleFunc("/api/plans/", planRouteHandler)

	mux.HandleFunc("/api/payment-methods", catalogHandler.ListPaymentMethods)

	// Cart routes
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cartHandler.Get(w, r)
		case http.MethodDelete:
			cartHandler.Clear(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("/api/cart/items/", cartHandler.RemoveItem)

	// Order routes
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && (r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/") {
			orderHandler.Create(w, r)
			return
		}

		switch {
		case strings.HasSuffix(r.URL.Path, "/status"):
			orderHandler.Status(w, r)
		case strings.HasSuffix(r.URL.Path, "/activate"):
			orderHandler.Activate(w, r)
		case strings.HasSuffix(r.URL.Path, "/confirm-payment"):
			orderHandler.ConfirmPayment(w, r)
		case strings.HasSuffix(r.URL.Path, "/cancel"):
			orderHandler.Cancel(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/":
			orderHandler.GetByID(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Apply middleware (innermost first)
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(h)

	return h
}
