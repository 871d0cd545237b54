package order

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"waw-esim/internal/catalog"
	"waw-esim/internal/model"
	"waw-esim/internal/simulate"
	"waw-esim/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Payment method IDs settled synchronously. Mobile money rails confirm
// in-session; everything else goes through an external checkout redirect.
var instantRails = map[string]bool{
	"orange_money": true,
	"wave":         true,
}

// checkoutBaseURL hosts the external card/bank checkout flow.
const checkoutBaseURL = "https://payment.wawtelecom.com/checkout"

// Simulated processing times of the fabricated payment and provisioning
// round-trips.
const (
	createLatency   = 1500 * time.Millisecond
	lookupLatency   = 300 * time.Millisecond
	activateLatency = 2 * time.Second
	statusLatency   = 200 * time.Millisecond
)

const activationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// service implements Service over the catalogue and a key-value store.
type service struct {
	catalog       catalog.Provider
	storage       storage.Store
	logger        zerolog.Logger
	now           func() time.Time
	latencyFactor float64
}

// NewService creates a new order service. now may be nil, in which case
// time.Now is used; tests inject a fixed clock.
func NewService(provider catalog.Provider, kv storage.Store, latencyFactor float64, now func() time.Time, logger zerolog.Logger) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		catalog:       provider,
		storage:       kv,
		logger:        logger.With().Str("service", "order").Logger(),
		now:           now,
		latencyFactor: latencyFactor,
	}
}

// Create places an order for a plan with the chosen payment method.
func (s *service) Create(ctx context.Context, planID string, customer model.CustomerInfo, activation model.ActivationInfo, paymentMethodID string) (*CreateResult, error) {
	if err := simulate.Wait(ctx, createLatency, s.latencyFactor); err != nil {
		return nil, err
	}

	if err := customer.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("invalid customer info")
		return nil, err
	}
	if paymentMethodID == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Payment method is required")
	}

	plan, err := s.catalog.GetPlan(ctx, planID)
	if err != nil {
		s.logger.Warn().Str("plan_id", planID).Err(err).Msg("plan lookup failed")
		return nil, err
	}

	now := s.now()
	order := &model.Order{
		ID:             fmt.Sprintf("esim_%s", uuid.New()),
		PlanID:         plan.ID,
		Plan:           *plan,
		CustomerInfo:   customer,
		ActivationInfo: activation,
		Status:         model.OrderStatusPending,
		PaymentStatus:  model.PaymentStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		TotalAmount:    plan.Price,
		ActivationCode: generateActivationCode(),
	}

	result := &CreateResult{Order: order}

	if instantRails[paymentMethodID] {
		// Mobile money settles in-session.
		order.PaymentStatus = model.PaymentStatusCompleted
		order.Status = model.OrderStatusPaid
		order.QRCode = buildQRCode(order.ActivationCode)
	} else {
		// External checkout: the order stays pending until the provider
		// confirms. It is persisted anyway so Get works before confirmation.
		result.RedirectURL = fmt.Sprintf("%s/%s", checkoutBaseURL, order.ID)
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("plan_id", plan.ID).
		Str("payment_method", paymentMethodID).
		Str("status", string(order.Status)).
		Msg("order created")

	return result, nil
}

// Get retrieves a persisted order by its ID.
func (s *service) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if err := simulate.Wait(ctx, lookupLatency, s.latencyFactor); err != nil {
		return nil, err
	}
	return s.load(ctx, orderID)
}

// Activate provisions the eSIM profile of a paid order. The profile expires
// plan-duration days after activation.
func (s *service) Activate(ctx context.Context, orderID string, activation model.ActivationInfo) (*model.Order, error) {
	if err := simulate.Wait(ctx, activateLatency, s.latencyFactor); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != model.OrderStatusPaid {
		s.logger.Warn().
			Str("order_id", orderID).
			Str("status", string(order.Status)).
			Msg("activation refused for unpaid order")
		return nil, model.ErrOrderNotPaid
	}

	now := s.now()
	if err := order.TransitionTo(model.OrderStatusActivated, now); err != nil {
		return nil, err
	}

	if activation.DeviceType != "" {
		order.ActivationInfo = activation
	}
	expiresAt := now.Add(time.Duration(order.Plan.Duration) * 24 * time.Hour)
	order.ActivatedAt = &now
	order.ExpiresAt = &expiresAt

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Time("expires_at", expiresAt).
		Msg("esim activated")

	return order, nil
}

// Status returns the order and payment status of an order.
func (s *service) Status(ctx context.Context, orderID string) (*StatusResult, error) {
	if err := simulate.Wait(ctx, statusLatency, s.latencyFactor); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &StatusResult{Status: order.Status, PaymentStatus: order.PaymentStatus}, nil
}

// ConfirmPayment marks a redirect-path order as paid, synthesising the QR
// payload the instant rails produce in-session.
func (s *service) ConfirmPayment(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := order.TransitionTo(model.OrderStatusPaid, now); err != nil {
		return nil, err
	}
	order.PaymentStatus = model.PaymentStatusCompleted
	order.QRCode = buildQRCode(order.ActivationCode)

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID).Msg("payment confirmed")
	return order, nil
}

// Cancel cancels an order that has not reached a terminal state.
func (s *service) Cancel(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(model.OrderStatusCancelled, s.now()); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID).Msg("order cancelled")
	return order, nil
}

func (s *service) load(ctx context.Context, orderID string) (*model.Order, error) {
	raw, err := s.storage.Get(ctx, storage.OrderKeyPrefix+orderID)
	if err != nil {
		if err == storage.ErrKeyNotFound {
			return nil, model.ErrOrderNotFound
		}
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to read order")
		return nil, fmt.Errorf("failed to read order %s: %w", orderID, err)
	}

	var order model.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("corrupt order record")
		return nil, model.ErrOrderNotFound
	}
	return &order, nil
}

func (s *service) persist(ctx context.Context, order *model.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to serialise order %s: %w", order.ID, err)
	}
	if err := s.storage.Set(ctx, storage.OrderKeyPrefix+order.ID, raw); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to persist order")
		return fmt.Errorf("failed to persist order %s: %w", order.ID, err)
	}
	return nil
}

// generateActivationCode produces an opaque WAW-prefixed token, e.g.
// WAWK7Q2M9X1F. The token is a placeholder, not a real provisioning code.
func generateActivationCode() string {
	var b strings.Builder
	b.WriteString("WAW")
	for i := 0; i < 8; i++ {
		b.WriteByte(activationCodeAlphabet[rand.Intn(len(activationCodeAlphabet))])
	}
	return b.String()
}

// buildQRCode synthesises a placeholder SVG QR payload embedding the
// activation code, mirroring what a provisioning backend would return.
func buildQRCode(activationCode string) string {
	return fmt.Sprintf(
		`data:image/svg+xml,<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200"><rect width="200" height="200" fill="white"/><text x="100" y="100" text-anchor="middle" font-family="Arial" font-size="12" fill="black">QR Code eSIM</text><text x="100" y="120" text-anchor="middle" font-family="Arial" font-size="10" fill="black">%s</text></svg>`,
		activationCode,
	)
}
