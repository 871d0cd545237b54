package model

import (
	"fmt"
	"time"
)

// Plan represents a purchasable eSIM data bundle for a country or region.
// Plans are immutable once fetched from the catalogue; cart items and orders
// reference a snapshot of the plan they were created from.
type Plan struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	Region        string   `json:"region"`
	Data          string   `json:"data"`
	DataGB        float64  `json:"dataGB"`
	Duration      int      `json:"duration"` // validity in days
	Price         int64    `json:"price"`    // FCFA, no minor units
	Currency      string   `json:"currency"`
	Coverage      []string `json:"coverage"`
	Features      []string `json:"features"`
	Popular       bool     `json:"popular,omitempty"`
	Discount      int      `json:"discount,omitempty"`      // percentage
	OriginalPrice int64    `json:"originalPrice,omitempty"` // pre-discount price
}

// Validate checks the plan's internal consistency.
func (p *Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("plan ID is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("plan %s: price must be positive", p.ID)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("plan %s: duration must be positive", p.ID)
	}
	if p.Discount != 0 {
		if p.Discount < 0 || p.Discount >= 100 {
			return fmt.Errorf("plan %s: discount must be within (0,100)", p.ID)
		}
		if p.OriginalPrice <= p.Price {
			return fmt.Errorf("plan %s: original price must exceed discounted price", p.ID)
		}
	}
	return nil
}

// PaymentMethodType categorises a payment method.
type PaymentMethodType string

const (
	PaymentTypeMobileMoney  PaymentMethodType = "mobile_money"
	PaymentTypeCard         PaymentMethodType = "card"
	PaymentTypeBankTransfer PaymentMethodType = "bank_transfer"
)

// PaymentMethod represents a payment rail offered at checkout.
type PaymentMethod struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      PaymentMethodType `json:"type"`
	Provider  string            `json:"provider"`
	Icon      string            `json:"icon"`
	Supported bool              `json:"supported"`
	Fees      float64           `json:"fees,omitempty"` // percentage
}

// CartItem is a plan selection pending checkout. At most one item exists per
// plan ID; adding the same plan again increments Quantity.
type CartItem struct {
	PlanID   string `json:"planId"`
	Plan     Plan   `json:"plan"`
	Quantity int    `json:"quantity"`
}

// CustomerInfo captures the buyer's details for a single order attempt.
type CustomerInfo struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Country          string `json:"country"`
	AcceptTerms      bool   `json:"acceptTerms"`
	MarketingConsent bool   `json:"marketingConsent,omitempty"`
}

// DefaultCountry is pre-filled on the customer form.
const DefaultCountry = "Sénégal"

// Validate checks that all required customer fields are present and the terms
// have been accepted.
func (c *CustomerInfo) Validate() error {
	if c.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if c.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if c.Email == "" {
		return fmt.Errorf("email is required")
	}
	if c.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if !c.AcceptTerms {
		return ErrTermsNotAccepted
	}
	return nil
}

// DeviceType identifies the device an eSIM profile is installed on.
type DeviceType string

const (
	DeviceSmartphone DeviceType = "smartphone"
	DeviceTablet     DeviceType = "tablet"
	DeviceLaptop     DeviceType = "laptop"
	DeviceOther      DeviceType = "other"
)

// ActivationInfo carries device and travel details for an activation.
type ActivationInfo struct {
	DeviceType DeviceType `json:"deviceType"`
	TravelDate *time.Time `json:"travelDate,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}
