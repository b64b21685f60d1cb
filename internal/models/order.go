package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliverySettings carries the two shop-wide delivery constants. They are
// read from configuration once at startup and passed explicitly to every
// component that prices anything, so tests can vary them freely.
type DeliverySettings struct {
	// FreeDeliveryThreshold is the order total (in currency units) at or
	// above which delivery is free. Zero means delivery is never free by
	// threshold, which is harmless when the percentage is also zero.
	FreeDeliveryThreshold decimal.Decimal

	// DeliveryPercentage is the standard delivery charge as a percentage
	// of the order total, on a 0-100 scale.
	DeliveryPercentage decimal.Decimal
}

// DeliveryCost returns the delivery fee for the given order total,
// rounded half-up to 2 decimal places. Totals at or above the threshold
// ship free.
func (s DeliverySettings) DeliveryCost(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(s.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return total.Mul(s.DeliveryPercentage).Div(decimal.NewFromInt(100)).Round(2)
}

// FreeDeliveryDelta returns how much more the customer must spend to
// qualify for free delivery, or zero once the total meets the threshold.
func (s DeliverySettings) FreeDeliveryDelta(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(s.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return s.FreeDeliveryThreshold.Sub(total).Round(2)
}

// Order is a persisted customer order. The three monetary aggregates are
// a derived projection over the order's line items: they are recomputed
// by the repository on every line-item write and never set by callers.
type Order struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber string `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`

	FullName       string `json:"full_name" validate:"required,max=50"`
	Email          string `json:"email" validate:"required,email,max=254"`
	PhoneNumber    string `json:"phone_number" validate:"required,max=20"`
	Country        string `json:"country" validate:"required,max=40"`
	Postcode       string `json:"postcode" validate:"omitempty,max=20"`
	TownOrCity     string `json:"town_or_city" validate:"required,max=40"`
	StreetAddress1 string `json:"street_address1" validate:"required,max=80"`
	StreetAddress2 string `json:"street_address2" validate:"omitempty,max=80"`
	County         string `json:"county" validate:"omitempty,max=80"`

	OrderTotal   decimal.Decimal `json:"order_total" gorm:"type:decimal(10,2)"`
	DeliveryCost decimal.Decimal `json:"delivery_cost" gorm:"type:decimal(6,2)"`
	GrandTotal   decimal.Decimal `json:"grand_total" gorm:"type:decimal(10,2)"`

	LineItems []OrderLineItem `json:"line_items,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrderNumber generates an opaque unique order number. Order numbers
// are never reused.
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// OrderLineItem is one product line within an order. LineItemTotal is
// frozen at save time as quantity times the product's price at that
// moment; later price changes never alter it.
type OrderLineItem struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string   `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID   string   `json:"product_id" gorm:"type:varchar(36)"`
	Product     *Product `json:"product,omitempty"`
	ProductSize string   `json:"product_size,omitempty" gorm:"type:varchar(8)"`
	Quantity    int      `json:"quantity"`

	LineItemTotal decimal.Decimal `json:"line_item_total" gorm:"type:decimal(8,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
