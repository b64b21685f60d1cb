package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"boutique/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It reconciles order aggregates exactly like the GORM implementation,
// using the product repository for price lookups at save time.
type MockOrderRepository struct {
	orders      map[string]models.Order
	lineItems   map[string]models.OrderLineItem
	productRepo ProductRepository
	settings    models.DeliverySettings
	mu          sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(productRepo ProductRepository, settings models.DeliverySettings) *MockOrderRepository {
	return &MockOrderRepository{
		orders:      make(map[string]models.Order),
		lineItems:   make(map[string]models.OrderLineItem),
		productRepo: productRepo,
		settings:    settings,
	}
}

// GetAll returns all orders with their line items.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for id := range r.orders {
		orderList = append(orderList, r.assemble(id))
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order with its line items by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.orders[id]; !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrOrderNotFound)
	}
	order := r.assemble(id)
	return &order, nil
}

// GetByOrderNumber returns an order with its line items by its order number.
func (r *MockOrderRepository) GetByOrderNumber(number string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, order := range r.orders {
		if order.OrderNumber == number {
			found := r.assemble(id)
			return &found, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", number, models.ErrOrderNotFound)
}

// Create adds a new order, assigning its ID and order number if missing.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = models.NewOrderNumber()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	// Aggregates are a derived projection over line items; the reconciler
	// is their only writer, so caller-supplied values are discarded.
	order.OrderTotal = decimal.Zero
	order.DeliveryCost = decimal.Zero
	order.GrandTotal = decimal.Zero

	stored := *order
	stored.LineItems = nil
	r.orders[order.ID] = stored
	return nil
}

// Delete removes an order and its line items.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order with ID %s not found for deletion: %w", id, models.ErrOrderNotFound)
	}
	delete(r.orders, id)
	for itemID, item := range r.lineItems {
		if item.OrderID == id {
			delete(r.lineItems, itemID)
		}
	}
	return nil
}

// SaveLineItem persists a line item and reconciles its parent order.
func (r *MockOrderRepository) SaveLineItem(item *models.OrderLineItem) error {
	if item.Quantity < models.MinBagQuantity || item.Quantity > models.MaxBagQuantity {
		return fmt.Errorf("line item quantity %d: %w", item.Quantity, models.ErrInvalidQuantity)
	}

	product, err := r.productRepo.GetByID(item.ProductID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[item.OrderID]; !ok {
		return fmt.Errorf("order with ID %s: %w", item.OrderID, models.ErrOrderNotFound)
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
		item.CreatedAt = time.Now()
	}
	item.UpdatedAt = time.Now()
	item.LineItemTotal = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)

	stored := *item
	stored.Product = nil
	r.lineItems[item.ID] = stored
	r.recalcTotals(item.OrderID)
	return nil
}

// DeleteLineItem removes a line item and reconciles its parent order.
func (r *MockOrderRepository) DeleteLineItem(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.lineItems[id]
	if !ok {
		return fmt.Errorf("line item with ID %s: %w", id, models.ErrLineItemNotFound)
	}
	delete(r.lineItems, id)
	r.recalcTotals(item.OrderID)
	return nil
}

// assemble returns an order copy with its line items attached.
// Caller must hold at least the read lock.
func (r *MockOrderRepository) assemble(orderID string) models.Order {
	order := r.orders[orderID]
	for _, item := range r.lineItems {
		if item.OrderID == orderID {
			if product, err := r.productRepo.GetByID(item.ProductID); err == nil {
				item.Product = product
			}
			order.LineItems = append(order.LineItems, item)
		}
	}
	sort.Slice(order.LineItems, func(i, j int) bool {
		return order.LineItems[i].CreatedAt.Before(order.LineItems[j].CreatedAt)
	})
	return order
}

// recalcTotals re-sums the order's current line items and stores the
// three aggregates. Caller must hold the write lock.
func (r *MockOrderRepository) recalcTotals(orderID string) {
	order, ok := r.orders[orderID]
	if !ok {
		return
	}

	total := decimal.Zero
	for _, item := range r.lineItems {
		if item.OrderID == orderID {
			total = total.Add(item.LineItemTotal)
		}
	}
	total = total.Round(2)
	order.OrderTotal = total
	order.DeliveryCost = r.settings.DeliveryCost(total)
	order.GrandTotal = total.Add(order.DeliveryCost).Round(2)
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
}
