package services_test

import (
	"testing"

	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutDetails() services.CheckoutDetails {
	return services.CheckoutDetails{
		FullName:       "Ada Lovelace",
		Email:          "ada@example.com",
		PhoneNumber:    "0123456789",
		Country:        "GB",
		TownOrCity:     "London",
		StreetAddress1: "1 Analytical Way",
	}
}

func TestCheckoutEmptyBag(t *testing.T) {
	productRepo := seededProductRepo(t, nil)
	orderRepo := repositories.NewMockOrderRepository(productRepo, deliverySettings(50, 10))
	service := services.NewCheckoutService(orderRepo, productRepo, deliverySettings(50, 10), nil)

	order, err := service.Checkout(models.Bag{}, checkoutDetails())

	assert.ErrorIs(t, err, models.ErrEmptyBag)
	assert.Nil(t, order)
}

func TestCheckoutMaterializesBag(t *testing.T) {
	productRepo := seededProductRepo(t, map[string]float64{
		"prod-1": 20.00,
		"prod-2": 5.00,
	})
	settings := deliverySettings(50, 10)
	orderRepo := repositories.NewMockOrderRepository(productRepo, settings)
	service := services.NewCheckoutService(orderRepo, productRepo, settings, nil)

	bag := models.Bag{
		"prod-1": {Quantity: 1},
		"prod-2": {Sizes: map[string]int{"m": 2, "s": 1}},
	}
	order, err := service.Checkout(bag, checkoutDetails())

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, "Ada Lovelace", order.FullName)
	require.Len(t, order.LineItems, 3)

	// 20.00 + 5.00*2 + 5.00 = 35.00, delivery 3.50, grand 38.50
	assert.Equal(t, "35.00", order.OrderTotal.StringFixed(2))
	assert.Equal(t, "3.50", order.DeliveryCost.StringFixed(2))
	assert.Equal(t, "38.50", order.GrandTotal.StringFixed(2))

	// Aggregates verify clean right after checkout.
	assert.NoError(t, service.VerifyTotals(order.ID))
}

func TestCheckoutStaleBagEntryCleansUp(t *testing.T) {
	productRepo := seededProductRepo(t, map[string]float64{"prod-1": 20.00})
	settings := deliverySettings(50, 10)
	orderRepo := repositories.NewMockOrderRepository(productRepo, settings)
	service := services.NewCheckoutService(orderRepo, productRepo, settings, nil)

	bag := models.Bag{
		"prod-1":   {Quantity: 1},
		"zzz-gone": {Quantity: 2},
	}
	order, err := service.Checkout(bag, checkoutDetails())

	assert.ErrorIs(t, err, models.ErrStaleBagEntry)
	assert.Nil(t, order)

	// No half-built order survives the failure.
	orders, listErr := orderRepo.GetAll()
	require.NoError(t, listErr)
	assert.Empty(t, orders)
}

func TestCheckoutRejectsInvalidQuantity(t *testing.T) {
	productRepo := seededProductRepo(t, map[string]float64{"prod-1": 20.00})
	settings := deliverySettings(50, 10)
	orderRepo := repositories.NewMockOrderRepository(productRepo, settings)
	service := services.NewCheckoutService(orderRepo, productRepo, settings, nil)

	// The persisted path rejects instead of clamping; a quantity like
	// this can only appear through a corrupted session.
	bag := models.Bag{"prod-1": {Quantity: 150}}
	order, err := service.Checkout(bag, checkoutDetails())

	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	assert.Nil(t, order)

	orders, listErr := orderRepo.GetAll()
	require.NoError(t, listErr)
	assert.Empty(t, orders)
}

// driftedOrderRepo serves a fixed order whose stored aggregates no
// longer match its line items, standing in for storage that was written
// around the reconciler.
type driftedOrderRepo struct {
	repositories.OrderRepository
	order *models.Order
}

func (r *driftedOrderRepo) GetByID(id string) (*models.Order, error) {
	return r.order, nil
}

func TestVerifyTotalsDetectsDrift(t *testing.T) {
	productRepo := seededProductRepo(t, nil)
	settings := deliverySettings(50, 10)

	// One line item of 12.50, but the stored aggregates claim 99.99.
	orderRepo := &driftedOrderRepo{order: &models.Order{
		ID:          "order-1",
		OrderNumber: models.NewOrderNumber(),
		LineItems: []models.OrderLineItem{
			{ID: "item-1", OrderID: "order-1", ProductID: "prod-1", Quantity: 1, LineItemTotal: decimal.NewFromFloat(12.50)},
		},
		OrderTotal:   decimal.NewFromFloat(99.99),
		DeliveryCost: decimal.Zero,
		GrandTotal:   decimal.NewFromFloat(99.99),
	}}
	service := services.NewCheckoutService(orderRepo, productRepo, settings, nil)

	assert.ErrorIs(t, service.VerifyTotals("order-1"), models.ErrAggregateDrift)
}

func TestVerifyTotalsCleanAfterHandSetAggregates(t *testing.T) {
	productRepo := seededProductRepo(t, nil)
	settings := deliverySettings(50, 10)
	orderRepo := repositories.NewMockOrderRepository(productRepo, settings)
	service := services.NewCheckoutService(orderRepo, productRepo, settings, nil)

	// Create discards caller-supplied aggregates, so verification stays
	// clean even when the caller tried to hand-set them.
	order := &models.Order{
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		OrderTotal: decimal.NewFromFloat(99.99),
	}
	require.NoError(t, orderRepo.Create(order))

	assert.NoError(t, service.VerifyTotals(order.ID))
}

func TestVerifyTotalsMissingOrder(t *testing.T) {
	productRepo := seededProductRepo(t, nil)
	settings := deliverySettings(50, 10)
	orderRepo := repositories.NewMockOrderRepository(productRepo, settings)
	service := services.NewCheckoutService(orderRepo, productRepo, settings, nil)

	assert.ErrorIs(t, service.VerifyTotals("missing"), models.ErrOrderNotFound)
}
