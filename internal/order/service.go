package order

import (
	"context"

	"waw-esim/internal/model"
)

// CreateResult is the outcome of placing an order. RedirectURL is set only
// when the chosen payment method requires an external checkout redirect; the
// order itself is then still pending.
type CreateResult struct {
	Order       *model.Order
	RedirectURL string
}

// StatusResult is a thin projection of an order's state.
type StatusResult struct {
	Status        model.OrderStatus   `json:"status"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
}

// Service defines operations for eSIM order management.
type Service interface {
	// Create places an order for a plan with the chosen payment method.
	Create(ctx context.Context, planID string, customer model.CustomerInfo, activation model.ActivationInfo, paymentMethodID string) (*CreateResult, error)

	// Get retrieves a persisted order by its ID.
	Get(ctx context.Context, orderID string) (*model.Order, error)

	// Activate provisions the eSIM profile of a paid order.
	Activate(ctx context.Context, orderID string, activation model.ActivationInfo) (*model.Order, error)

	// Status returns the order and payment status of an order.
	Status(ctx context.Context, orderID string) (*StatusResult, error)

	// ConfirmPayment marks a redirect-path order as paid. It stands in for
	// the payment provider's confirmation callback.
	ConfirmPayment(ctx context.Context, orderID string) (*model.Order, error)

	// Cancel cancels an order that has not reached a terminal state.
	Cancel(ctx context.Context, orderID string) (*model.Order, error)
}
