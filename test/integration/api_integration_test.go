package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"waw-esim/internal/cart"
	"waw-esim/internal/catalog"
	"waw-esim/internal/flow"
	"waw-esim/internal/handler"
	"waw-esim/internal/model"
	"waw-esim/internal/order"
	"waw-esim/internal/router"
	"waw-esim/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAPIServer builds the full HTTP stack over a Postgres-backed store.
func setupAPIServer(t *testing.T, testDB *TestDB) *httptest.Server {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	kv, err := storage.NewPostgresStore(ctx, testDB.Pool, logger)
	require.NoError(t, err)

	provider := catalog.NewStaticProvider(0, logger)
	orderService := order.NewService(provider, kv, 0, nil, logger)

	newCart := func(lookup cart.PlanLookup) *cart.Store {
		return cart.NewStore(kv, lookup, logger)
	}
	controller := flow.NewController(provider, orderService, newCart, logger)
	controller.Init(ctx)
	t.Cleanup(controller.Close)

	catalogHandler := handler.NewCatalogHandler(provider, logger)
	cartHandler := handler.NewCartHandler(controller, logger)
	orderHandler := handler.NewOrderHandler(controller, orderService, logger)

	server := httptest.NewServer(router.New(catalogHandler, cartHandler, orderHandler, logger))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	server := setupAPIServer(t, testDB)
	client := server.Client()

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("ListPlans", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/plans")
		require.NoError(t, err)

		var plans []model.Plan
		decodeBody(t, resp, &plans)
		assert.Len(t, plans, 6)
	})

	t.Run("GetPlan", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/plans/umrah-sa-1gb")
		require.NoError(t, err)

		var plan model.Plan
		decodeBody(t, resp, &plan)
		assert.Equal(t, int64(2999), plan.Price)
	})

	t.Run("GetPlan_NotFound", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/plans/ghost")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("ListPaymentMethods", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/payment-methods")
		require.NoError(t, err)

		var methods []model.PaymentMethod
		decodeBody(t, resp, &methods)
		assert.Len(t, methods, 6)
	})

	t.Run("FullOrderFlow", func(t *testing.T) {
		// Add a plan to the cart.
		resp := postJSON(t, server.URL+"/api/cart/items", map[string]string{"planId": "umrah-sa-1gb"})
		var view struct {
			Total      int64 `json:"total"`
			ItemsCount int   `json:"itemsCount"`
		}
		decodeBody(t, resp, &view)
		assert.Equal(t, int64(2999), view.Total)
		assert.Equal(t, 1, view.ItemsCount)

		// Place the order with an instant rail.
		resp = postJSON(t, server.URL+"/api/orders", map[string]interface{}{
			"customerInfo": map[string]interface{}{
				"firstName":   "Awa",
				"lastName":    "Diop",
				"email":       "awa.diop@example.sn",
				"phone":       "+221770001122",
				"country":     "Sénégal",
				"acceptTerms": true,
			},
			"activationInfo":  map[string]string{"deviceType": "smartphone"},
			"paymentMethodId": "wave",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created struct {
			Order       *model.Order `json:"order"`
			RedirectURL string       `json:"redirectUrl"`
		}
		decodeBody(t, resp, &created)
		require.NotNil(t, created.Order)
		assert.Equal(t, model.OrderStatusPaid, created.Order.Status)
		assert.Regexp(t, `^WAW[A-Z0-9]{8}$`, created.Order.ActivationCode)
		assert.Empty(t, created.RedirectURL)

		// The cart is now empty.
		cartResp, err := client.Get(server.URL + "/api/cart")
		require.NoError(t, err)
		decodeBody(t, cartResp, &view)
		assert.Equal(t, 0, view.ItemsCount)

		// Status reflects the instant settlement.
		statusResp, err := client.Get(server.URL + "/api/orders/" + created.Order.ID + "/status")
		require.NoError(t, err)
		var status map[string]string
		decodeBody(t, statusResp, &status)
		assert.Equal(t, "paid", status["status"])
		assert.Equal(t, "completed", status["paymentStatus"])

		// Activate the profile.
		resp = postJSON(t, server.URL+"/api/orders/"+created.Order.ID+"/activate",
			map[string]interface{}{"activationInfo": map[string]string{"deviceType": "smartphone"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var activated model.Order
		decodeBody(t, resp, &activated)
		assert.Equal(t, model.OrderStatusActivated, activated.Status)
		require.NotNil(t, activated.ExpiresAt)
	})

	t.Run("RedirectFlow", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/cart/items", map[string]string{"planId": "europe-5gb"})
		resp.Body.Close()

		resp = postJSON(t, server.URL+"/api/orders", map[string]interface{}{
			"customerInfo": map[string]interface{}{
				"firstName":   "Moussa",
				"lastName":    "Ndiaye",
				"email":       "moussa.ndiaye@example.sn",
				"phone":       "+221780003344",
				"country":     "Sénégal",
				"acceptTerms": true,
			},
			"activationInfo":  map[string]string{"deviceType": "smartphone"},
			"paymentMethodId": "visa_card",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created struct {
			Order       *model.Order `json:"order"`
			RedirectURL string       `json:"redirectUrl"`
		}
		decodeBody(t, resp, &created)
		require.NotNil(t, created.Order)
		assert.Equal(t, model.OrderStatusPending, created.Order.Status)
		assert.Contains(t, created.RedirectURL, "https://payment.wawtelecom.com/checkout/")

		// The external provider confirms the payment.
		resp = postJSON(t, server.URL+"/api/orders/"+created.Order.ID+"/confirm-payment", map[string]string{})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var confirmed model.Order
		decodeBody(t, resp, &confirmed)
		assert.Equal(t, model.OrderStatusPaid, confirmed.Status)
		assert.NotEmpty(t, confirmed.QRCode)
	})

	t.Run("OrderNotFound", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/orders/esim_missing")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("EmptyCartOrderRejected", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/orders", map[string]interface{}{
			"customerInfo": map[string]interface{}{
				"firstName":   "Awa",
				"lastName":    "Diop",
				"email":       "awa.diop@example.sn",
				"phone":       "+221770001122",
				"country":     "Sénégal",
				"acceptTerms": true,
			},
			"paymentMethodId": "wave",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
