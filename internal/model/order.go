package model

import (
	"fmt"
	"time"
)

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusActivated OrderStatus = "activated"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// allowedOrderTransitions defines valid status transitions. Key is the current
// status, value is the set of statuses it may move to. Expiry of an activated
// profile is time-based and applied by an external collaborator.
var allowedOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusActivated, OrderStatusExpired, OrderStatusCancelled},
	OrderStatusActivated: {OrderStatusExpired, OrderStatusCancelled},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusActivated,
		OrderStatusExpired, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks the payment sub-state of an order.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

var allowedPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted:  {PaymentStatusRefunded},
}

// CanTransitionTo reports whether the payment status may move to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range allowedPaymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a customer's purchase attempt for a single plan, tracked through
// payment and activation. The plan is embedded as a snapshot so later catalogue
// changes cannot alter a recorded order.
type Order struct {
	ID             string         `json:"id"`
	PlanID         string         `json:"planId"`
	Plan           Plan           `json:"plan"`
	CustomerInfo   CustomerInfo   `json:"customerInfo"`
	ActivationInfo ActivationInfo `json:"activationInfo"`
	Status         OrderStatus    `json:"status"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	ActivatedAt    *time.Time     `json:"activatedAt,omitempty"`
	ExpiresAt      *time.Time     `json:"expiresAt,omitempty"`
	TotalAmount    int64          `json:"totalAmount"`
	QRCode         string         `json:"qrCode,omitempty"`
	ActivationCode string         `json:"activationCode,omitempty"`
}

// TransitionTo moves the order to the next status, stamping UpdatedAt.
// It fails if the state machine does not allow the transition.
func (o *Order) TransitionTo(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot transition order from %s to %s", ErrInvalidState, o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}
