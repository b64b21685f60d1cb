package repositories

import (
	"boutique/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// SaveLineItem and DeleteLineItem reconcile the parent order's aggregates
// (order_total, delivery_cost, grand_total) in the same transaction as the
// line-item write, so a reader never observes aggregates computed from a
// stale line-item set.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByOrderNumber(number string) (*models.Order, error)
	Create(order *models.Order) error
	Delete(id string) error

	// SaveLineItem freezes the line item's total as quantity times the
	// product's current price, persists it, and reconciles the order.
	// Quantities outside [1, 99] are rejected with ErrInvalidQuantity.
	SaveLineItem(item *models.OrderLineItem) error
	// DeleteLineItem removes the line item and reconciles the order.
	DeleteLineItem(id string) error
}
