package repositories

import (
	"errors"
	"fmt"

	"boutique/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
// Delivery settings are injected at construction so the reconciliation
// rule matches the one the bag calculator uses.
type GORMOrderRepository struct {
	db       *gorm.DB
	settings models.DeliverySettings
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB, settings models.DeliverySettings) *GORMOrderRepository {
	return &GORMOrderRepository{
		db:       db,
		settings: settings,
	}
}

// GetAll retrieves all orders with their line items.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("LineItems").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order with its line items by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("LineItems").Preload("LineItems.Product").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByOrderNumber retrieves an order with its line items by its order number.
func (r *GORMOrderRepository) GetByOrderNumber(number string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("LineItems").Preload("LineItems.Product").First(&order, "order_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", number, models.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", number, err)
	}
	return &order, nil
}

// Create creates a new order, assigning its ID and order number if missing.
// Aggregates start at zero; line-item writes fill them in.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = models.NewOrderNumber()
	}
	// Aggregates are a derived projection over line items; the reconciler
	// is their only writer, so caller-supplied values are discarded.
	order.OrderTotal = decimal.Zero
	order.DeliveryCost = decimal.Zero
	order.GrandTotal = decimal.Zero
	if err := r.db.Omit("LineItems").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Delete removes an order and its line items.
func (r *GORMOrderRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderLineItem{}, "order_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete line items for order %s: %w", id, err)
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order with ID %s not found for deletion: %w", id, models.ErrOrderNotFound)
		}
		return nil
	})
}

// SaveLineItem persists a line item and reconciles its parent order
// inside one transaction.
func (r *GORMOrderRepository) SaveLineItem(item *models.OrderLineItem) error {
	if item.Quantity < models.MinBagQuantity || item.Quantity > models.MaxBagQuantity {
		return fmt.Errorf("line item quantity %d: %w", item.Quantity, models.ErrInvalidQuantity)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.lockOrder(tx, item.OrderID); err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %s: %w", item.ProductID, models.ErrProductNotFound)
			}
			return fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
		}

		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		// Frozen at save time; later price changes don't touch it.
		item.LineItemTotal = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		item.Product = nil

		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("failed to save line item: %w", err)
		}
		return r.recalcTotals(tx, item.OrderID)
	})
}

// DeleteLineItem removes a line item and reconciles its parent order
// inside one transaction.
func (r *GORMOrderRepository) DeleteLineItem(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item models.OrderLineItem
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("line item with ID %s: %w", id, models.ErrLineItemNotFound)
			}
			return fmt.Errorf("failed to load line item %s: %w", id, err)
		}

		if err := r.lockOrder(tx, item.OrderID); err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderLineItem{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete line item %s: %w", id, err)
		}
		return r.recalcTotals(tx, item.OrderID)
	})
}

// lockOrder verifies the order exists and, on postgres, takes a row lock
// for the rest of the transaction so concurrent line-item writes on the
// same order serialize their reconciliations. SQLite has no row locks and
// serializes writers itself.
func (r *GORMOrderRepository) lockOrder(tx *gorm.DB, orderID string) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := q.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order with ID %s: %w", orderID, models.ErrOrderNotFound)
		}
		return fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	return nil
}

// recalcTotals re-sums the order's current line items and stores the
// three aggregates. Runs inside the caller's transaction.
func (r *GORMOrderRepository) recalcTotals(tx *gorm.DB, orderID string) error {
	var items []models.OrderLineItem
	if err := tx.Find(&items, "order_id = ?", orderID).Error; err != nil {
		return fmt.Errorf("failed to load line items for order %s: %w", orderID, err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineItemTotal)
	}
	total = total.Round(2)
	delivery := r.settings.DeliveryCost(total)
	grand := total.Add(delivery).Round(2)

	err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"order_total":   total,
		"delivery_cost": delivery,
		"grand_total":   grand,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update totals for order %s: %w", orderID, err)
	}
	return nil
}
