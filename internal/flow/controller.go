package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"waw-esim/internal/cart"
	"waw-esim/internal/catalog"
	"waw-esim/internal/model"
	"waw-esim/internal/order"

	"github.com/rs/zerolog"
)

// Snapshot is the immutable view of the controller's state handed to the
// presentation layer. It carries everything the order UI renders: catalogue
// data, cart contents, the current order and the loading/error flags.
type Snapshot struct {
	Plans          []model.Plan          `json:"plans"`
	PaymentMethods []model.PaymentMethod `json:"paymentMethods"`
	Cart           []model.CartItem      `json:"cart"`
	CurrentOrder   *model.Order          `json:"currentOrder,omitempty"`
	RedirectURL    string                `json:"redirectUrl,omitempty"`
	Loading        bool                  `json:"loading"`
	Error          string                `json:"error,omitempty"`
	Errors         []string              `json:"errors,omitempty"`
	CartTotal      int64                 `json:"cartTotal"`
	CartItemsCount int                   `json:"cartItemsCount"`
}

// Controller aggregates the catalogue, cart and order service behind a single
// stateful facade. All state mutations are serialised by its mutex and become
// no-ops once the controller is closed, so an in-flight operation resolving
// after the owning flow is torn down cannot corrupt anything.
type Controller struct {
	mu             sync.Mutex
	plans          []model.Plan
	paymentMethods []model.PaymentMethod
	currentOrder   *model.Order
	redirectURL    string
	inflight       int
	errs           []error
	closed         bool
	subscribers    map[int]func(Snapshot)
	nextSubID      int

	catalog catalog.Provider
	cart    *cart.Store
	orders  order.Service
	logger  zerolog.Logger
}

// NewController wires the controller. The cart store is created here because
// the controller itself is the cart's plan lookup.
func NewController(provider catalog.Provider, orders order.Service, newCart func(cart.PlanLookup) *cart.Store, logger zerolog.Logger) *Controller {
	c := &Controller{
		catalog:     provider,
		orders:      orders,
		subscribers: make(map[int]func(Snapshot)),
		logger:      logger.With().Str("controller", "flow").Logger(),
	}
	c.cart = newCart(c)
	return c
}

// Init rehydrates the cart and loads plans and payment methods concurrently,
// then blocks until both loads finish.
func (c *Controller) Init(ctx context.Context) {
	c.cart.Load(ctx)
	c.notify()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.LoadPlans(ctx)
	}()
	go func() {
		defer wg.Done()
		c.LoadPaymentMethods(ctx)
	}()
	wg.Wait()
}

// LoadPlans fetches the plan catalogue into the controller state.
func (c *Controller) LoadPlans(ctx context.Context) {
	c.beginOp()
	plans, err := c.catalog.ListPlans(ctx)
	c.endOp(func() {
		if err != nil {
			c.errs = append(c.errs, fmt.Errorf("erreur lors du chargement des plans: %w", err))
			return
		}
		c.plans = plans
	})
}

// LoadPaymentMethods fetches the payment methods into the controller state.
func (c *Controller) LoadPaymentMethods(ctx context.Context) {
	c.beginOp()
	methods, err := c.catalog.ListPaymentMethods(ctx)
	c.endOp(func() {
		if err != nil {
			c.errs = append(c.errs, fmt.Errorf("erreur lors du chargement des méthodes de paiement: %w", err))
			return
		}
		c.paymentMethods = methods
	})
}

// LookupPlan resolves a plan ID against the loaded catalogue. It implements
// cart.PlanLookup.
func (c *Controller) LookupPlan(planID string) (model.Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, plan := range c.plans {
		if plan.ID == planID {
			return plan, true
		}
	}
	return model.Plan{}, false
}

// AddToCart adds one unit of the plan to the cart.
func (c *Controller) AddToCart(ctx context.Context, planID string) {
	if c.isClosed() {
		return
	}
	if err := c.cart.Add(ctx, planID); err != nil {
		c.recordError(err)
		return
	}
	c.notify()
}

// RemoveFromCart removes one unit of the plan from the cart.
func (c *Controller) RemoveFromCart(ctx context.Context, planID string) {
	if c.isClosed() {
		return
	}
	if err := c.cart.Remove(ctx, planID); err != nil {
		c.recordError(err)
		return
	}
	c.notify()
}

// ClearCart empties the cart.
func (c *Controller) ClearCart(ctx context.Context) {
	if c.isClosed() {
		return
	}
	if err := c.cart.Clear(ctx); err != nil {
		c.recordError(err)
		return
	}
	c.notify()
}

// CreateOrder places an order for the first cart entry. Multi-item checkout
// is not supported. On success the current order is set, any redirect URL is
// recorded on the snapshot for the presentation layer to open, and the cart
// is cleared. The returned boolean tells the caller whether to advance.
func (c *Controller) CreateOrder(ctx context.Context, customer model.CustomerInfo, activation model.ActivationInfo, paymentMethodID string) bool {
	items := c.cart.Items()
	if len(items) == 0 {
		c.recordError(model.ErrEmptyCart)
		return false
	}
	first := items[0]

	c.beginOp()
	result, err := c.orders.Create(ctx, first.PlanID, customer, activation, paymentMethodID)

	success := false
	c.endOp(func() {
		if err != nil {
			c.errs = append(c.errs, err)
			return
		}
		c.currentOrder = result.Order
		c.redirectURL = result.RedirectURL
		success = true
	})
	if !success {
		return false
	}

	// The failed path leaves the cart untouched so the user can retry.
	if err := c.cart.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear cart after order")
	}
	c.notify()
	return true
}

// GetOrder loads a persisted order into the current-order slot.
func (c *Controller) GetOrder(ctx context.Context, orderID string) *model.Order {
	c.beginOp()
	ord, err := c.orders.Get(ctx, orderID)
	c.endOp(func() {
		if err != nil {
			c.errs = append(c.errs, err)
			return
		}
		c.currentOrder = ord
	})
	return ord
}

// ActivateESIM activates the order's eSIM profile and refreshes the
// current-order slot.
func (c *Controller) ActivateESIM(ctx context.Context, orderID string, activation model.ActivationInfo) bool {
	c.beginOp()
	ord, err := c.orders.Activate(ctx, orderID, activation)

	success := false
	c.endOp(func() {
		if err != nil {
			c.errs = append(c.errs, err)
			return
		}
		c.currentOrder = ord
		success = true
	})
	return success
}

// ConfirmPayment applies the external checkout confirmation to a pending
// order and refreshes the current-order slot.
func (c *Controller) ConfirmPayment(ctx context.Context, orderID string) bool {
	c.beginOp()
	ord, err := c.orders.ConfirmPayment(ctx, orderID)

	success := false
	c.endOp(func() {
		if err != nil {
			c.errs = append(c.errs, err)
			return
		}
		c.currentOrder = ord
		success = true
	})
	return success
}

// Errors returns the typed errors accumulated since the last operation batch
// started. Two concurrent failures both survive; nothing is overwritten.
func (c *Controller) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errs...)
}

// LastError returns the most recent error, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs[len(c.errs)-1]
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a callback invoked after every state change and returns
// its unsubscribe function.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Close tears the controller down. Any operation still in flight resolves
// into a no-op instead of mutating state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.subscribers = make(map[int]func(Snapshot))
}

// beginOp marks an operation as in flight. The error list is cleared when the
// first operation of a batch starts, so a retry does not show stale errors.
func (c *Controller) beginOp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.inflight == 0 {
		c.errs = nil
	}
	c.inflight++
}

// endOp applies the operation's state update and releases the loading flag.
// Updates are dropped if the controller was closed while the operation was in
// flight.
func (c *Controller) endOp(apply func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.inflight > 0 {
		c.inflight--
	}
	apply()
	snapshot := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (c *Controller) recordError(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.errs = append(c.errs, err)
	snapshot := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	snapshot := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// snapshotLocked builds a state copy. Callers must hold the lock.
func (c *Controller) snapshotLocked() Snapshot {
	messages := make([]string, 0, len(c.errs))
	for _, err := range c.errs {
		messages = append(messages, err.Error())
	}
	snapshot := Snapshot{
		Plans:          append([]model.Plan(nil), c.plans...),
		PaymentMethods: append([]model.PaymentMethod(nil), c.paymentMethods...),
		Cart:           c.cart.Items(),
		RedirectURL:    c.redirectURL,
		Loading:        c.inflight > 0,
		CartTotal:      c.cart.Total(),
		CartItemsCount: c.cart.ItemCount(),
	}
	if len(messages) > 0 {
		snapshot.Errors = messages
		snapshot.Error = strings.Join(messages, "; ")
	}
	if c.currentOrder != nil {
		copied := *c.currentOrder
		snapshot.CurrentOrder = &copied
	}
	return snapshot
}

func (c *Controller) subscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return subs
}
