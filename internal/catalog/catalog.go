package catalog

import (
	"context"

	"waw-esim/internal/model"
)

// Provider serves the plan catalogue and the payment methods offered at
// checkout. Implementations may fail (network, timeout); callers must handle
// both branches even though the static provider never errors on its own.
type Provider interface {
	// ListPlans returns every purchasable plan.
	ListPlans(ctx context.Context) ([]model.Plan, error)

	// GetPlan returns a single plan by ID.
	GetPlan(ctx context.Context, id string) (*model.Plan, error)

	// ListPaymentMethods returns the payment rails offered at checkout.
	ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)
}
