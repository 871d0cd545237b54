package wizard

import (
	"context"

	"waw-esim/internal/flow"
	"waw-esim/internal/model"
)

// Step is a stage of the linear order wizard.
type Step string

const (
	StepPlan         Step = "plan"
	StepCustomer     Step = "customer"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// stepOrder is the forward sequence of the wizard.
var stepOrder = []Step{StepPlan, StepCustomer, StepPayment, StepConfirmation}

// Wizard walks a customer from plan selection to order confirmation. It is a
// UI-level state machine: closing it does not reset the cart or order state
// underneath, only the wizard's own inputs.
type Wizard struct {
	controller *flow.Controller

	step          Step
	selectedPlan  *model.Plan
	customer      model.CustomerInfo
	activation    model.ActivationInfo
	paymentMethod string
}

// New creates a wizard at the plan step with the form defaults pre-filled.
func New(controller *flow.Controller) *Wizard {
	return &Wizard{
		controller: controller,
		step:       StepPlan,
		customer:   model.CustomerInfo{Country: model.DefaultCountry},
		activation: model.ActivationInfo{DeviceType: model.DeviceSmartphone},
	}
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step {
	return w.step
}

// SelectPlan records the chosen plan and puts it in the cart.
func (w *Wizard) SelectPlan(ctx context.Context, plan model.Plan) {
	w.selectedPlan = &plan
	w.controller.AddToCart(ctx, plan.ID)
}

// SetCustomerInfo records the customer form inputs.
func (w *Wizard) SetCustomerInfo(info model.CustomerInfo) {
	w.customer = info
}

// SetActivationInfo records the device and travel inputs.
func (w *Wizard) SetActivationInfo(info model.ActivationInfo) {
	w.activation = info
}

// SelectPaymentMethod records the chosen payment method.
func (w *Wizard) SelectPaymentMethod(paymentMethodID string) {
	w.paymentMethod = paymentMethodID
}

// CanAdvance reports whether the current step's inputs satisfy its guard.
// The confirmation step is terminal and has no forward guard.
func (w *Wizard) CanAdvance() bool {
	switch w.step {
	case StepPlan:
		return w.selectedPlan != nil
	case StepCustomer:
		return w.customer.FirstName != "" &&
			w.customer.LastName != "" &&
			w.customer.Email != "" &&
			w.customer.Phone != "" &&
			w.customer.AcceptTerms
	case StepPayment:
		return w.paymentMethod != ""
	default:
		return true
	}
}

// Next advances one step. On the payment step it submits the order instead of
// a plain transition: success moves to confirmation, failure keeps the wizard
// on payment with the error surfaced through the controller.
func (w *Wizard) Next(ctx context.Context) bool {
	if !w.CanAdvance() {
		return false
	}

	if w.step == StepPayment {
		if !w.controller.CreateOrder(ctx, w.customer, w.activation, w.paymentMethod) {
			return false
		}
		w.step = StepConfirmation
		return true
	}

	for i, step := range stepOrder {
		if step == w.step && i < len(stepOrder)-1 {
			w.step = stepOrder[i+1]
			return true
		}
	}
	return false
}

// Previous moves one step back without side effects. It is disabled at the
// plan step.
func (w *Wizard) Previous() bool {
	for i, step := range stepOrder {
		if step == w.step && i > 0 {
			w.step = stepOrder[i-1]
			return true
		}
	}
	return false
}
