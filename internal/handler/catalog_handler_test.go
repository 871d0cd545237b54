package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"waw-esim/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider is a mock implementation of catalog.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListPlans(ctx context.Context) ([]model.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plan), args.Error(1)
}

func (m *MockProvider) GetPlan(ctx context.Context, id string) (*model.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockProvider) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentMethod), args.Error(1)
}

func testPlans() []model.Plan {
	return []model.Plan{
		{ID: "umrah-sa-1gb", Name: "Forfait Umrah", Price: 2999, Duration: 7, Currency: "FCFA"},
		{ID: "europe-5gb", Name: "Europe Voyage", Price: 8500, Duration: 30, Currency: "FCFA"},
	}
}

func TestCatalogHandler_ListPlans(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		method         string
		mockReturn     []model.Plan
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodGet,
			mockReturn:     testPlans(),
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Provider error",
			method:         http.MethodGet,
			mockError:      model.ErrNetwork,
			expectedStatus: http.StatusBadGateway,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			if tt.expectService {
				provider.On("ListPlans", mock.Anything).Return(tt.mockReturn, tt.mockError)
			}

			h := NewCatalogHandler(provider, logger)

			req := httptest.NewRequest(tt.method, "/api/plans", nil)
			rec := httptest.NewRecorder()
			h.ListPlans(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var plans []model.Plan
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&plans))
				assert.Len(t, plans, 2)
			}

			provider.AssertExpectations(t)
		})
	}
}

func TestCatalogHandler_GetPlan(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		plan := testPlans()[0]
		provider := new(MockProvider)
		provider.On("GetPlan", mock.Anything, "umrah-sa-1gb").Return(&plan, nil)

		h := NewCatalogHandler(provider, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/plans/umrah-sa-1gb", nil)
		rec := httptest.NewRecorder()
		h.GetPlan(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.Plan
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "umrah-sa-1gb", got.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		provider := new(MockProvider)
		provider.On("GetPlan", mock.Anything, "ghost").Return(nil, model.ErrPlanNotFound)

		h := NewCatalogHandler(provider, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/plans/ghost", nil)
		rec := httptest.NewRecorder()
		h.GetPlan(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Missing ID", func(t *testing.T) {
		provider := new(MockProvider)
		h := NewCatalogHandler(provider, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/plans/", nil)
		rec := httptest.NewRecorder()
		h.GetPlan(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		provider.AssertNotCalled(t, "GetPlan", mock.Anything, mock.Anything)
	})
}

func TestCatalogHandler_ListPaymentMethods(t *testing.T) {
	logger := zerolog.Nop()

	methods := []model.PaymentMethod{
		{ID: "wave", Name: "Wave", Type: model.PaymentTypeMobileMoney, Supported: true},
		{ID: "visa_card", Name: "Carte Visa", Type: model.PaymentTypeCard, Supported: true, Fees: 2.5},
	}

	provider := new(MockProvider)
	provider.On("ListPaymentMethods", mock.Anything).Return(methods, nil)

	h := NewCatalogHandler(provider, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/payment-methods", nil)
	rec := httptest.NewRecorder()
	h.ListPaymentMethods(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.PaymentMethod
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "wave", got[0].ID)
}
