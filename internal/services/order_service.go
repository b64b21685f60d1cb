package services

import (
	"fmt"

	"boutique/internal/models"
	"boutique/internal/repositories"
)

// OrderService handles business logic for persisted orders and their
// line items. Line-item writes go through the repository, which
// reconciles the parent order's totals in the same transaction.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order with its line items by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrderByNumber retrieves a single order with its line items by its
// order number.
func (s *OrderService) GetOrderByNumber(number string) (*models.Order, error) {
	return s.orderRepo.GetByOrderNumber(number)
}

// UpdateLineItemQuantity changes a line item's quantity. The item's
// total is recomputed from the product's current price and the order's
// aggregates are reconciled.
func (s *OrderService) UpdateLineItemQuantity(orderNumber, itemID string, quantity int) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}

	item, err := findLineItem(order, itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.orderRepo.SaveLineItem(item); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

// RemoveLineItem deletes a line item from the order and reconciles the
// order's aggregates.
func (s *OrderService) RemoveLineItem(orderNumber, itemID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}

	if _, err := findLineItem(order, itemID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.DeleteLineItem(itemID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

// findLineItem locates a line item on the order.
func findLineItem(order *models.Order, itemID string) (*models.OrderLineItem, error) {
	for i := range order.LineItems {
		if order.LineItems[i].ID == itemID {
			return &order.LineItems[i], nil
		}
	}
	return nil, fmt.Errorf("line item %s on order %s: %w", itemID, order.OrderNumber, models.ErrLineItemNotFound)
}
