package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/pkg/rabbitmq"

	"github.com/shopspring/decimal"
)

// CheckoutDetails is the customer/address form submitted at checkout.
type CheckoutDetails struct {
	FullName       string `json:"full_name" validate:"required,max=50"`
	Email          string `json:"email" validate:"required,email,max=254"`
	PhoneNumber    string `json:"phone_number" validate:"required,max=20"`
	Country        string `json:"country" validate:"required,max=40"`
	Postcode       string `json:"postcode" validate:"omitempty,max=20"`
	TownOrCity     string `json:"town_or_city" validate:"required,max=40"`
	StreetAddress1 string `json:"street_address1" validate:"required,max=80"`
	StreetAddress2 string `json:"street_address2" validate:"omitempty,max=80"`
	County         string `json:"county" validate:"omitempty,max=80"`
}

// CheckoutService materializes a session bag into a persisted order with
// line items. Every line-item save reconciles the order's aggregates, so
// the finished order's totals always match its line items.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	settings    models.DeliverySettings
	mqClient    *rabbitmq.Client
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, settings models.DeliverySettings, mqClient *rabbitmq.Client) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		settings:    settings,
		mqClient:    mqClient,
	}
}

// Checkout turns the bag into an order. An empty bag is a user error
// (ErrEmptyBag). A bag entry whose product vanished fails the whole
// checkout with ErrStaleBagEntry and the partially built order is
// deleted. Quantities are rejected, not clamped, on this path.
func (s *CheckoutService) Checkout(bag models.Bag, details CheckoutDetails) (*models.Order, error) {
	if len(bag) == 0 {
		return nil, models.ErrEmptyBag
	}

	order := &models.Order{
		FullName:       details.FullName,
		Email:          details.Email,
		PhoneNumber:    details.PhoneNumber,
		Country:        details.Country,
		Postcode:       details.Postcode,
		TownOrCity:     details.TownOrCity,
		StreetAddress1: details.StreetAddress1,
		StreetAddress2: details.StreetAddress2,
		County:         details.County,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.materialize(order, bag); err != nil {
		// Don't leave a half-built order behind.
		if delErr := s.orderRepo.Delete(order.ID); delErr != nil {
			log.Printf("Failed to clean up order %s after checkout error: %v", order.OrderNumber, delErr)
		}
		return nil, err
	}

	created, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order %s: %w", order.OrderNumber, err)
	}

	s.publishOrderCreated(created)
	return created, nil
}

// materialize saves one line item per bag entry (one per size for sized
// entries). Each save reconciles the order inside its own transaction.
func (s *CheckoutService) materialize(order *models.Order, bag models.Bag) error {
	productIDs := make([]string, 0, len(bag))
	for id := range bag {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	for _, productID := range productIDs {
		// Resolve up front so a stale entry is reported as such instead of
		// surfacing as a line-item save failure.
		if _, err := s.productRepo.GetByID(productID); err != nil {
			return fmt.Errorf("checkout entry %s: %w (%w)", productID, models.ErrStaleBagEntry, err)
		}

		entry := bag[productID]
		if !entry.Sized() {
			item := models.OrderLineItem{
				OrderID:   order.ID,
				ProductID: productID,
				Quantity:  entry.Quantity,
			}
			if err := s.orderRepo.SaveLineItem(&item); err != nil {
				return fmt.Errorf("failed to save line item for product %s: %w", productID, err)
			}
			continue
		}

		sizes := make([]string, 0, len(entry.Sizes))
		for size := range entry.Sizes {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)

		for _, size := range sizes {
			item := models.OrderLineItem{
				OrderID:     order.ID,
				ProductID:   productID,
				ProductSize: size,
				Quantity:    entry.Sizes[size],
			}
			if err := s.orderRepo.SaveLineItem(&item); err != nil {
				return fmt.Errorf("failed to save line item for product %s size %s: %w", productID, size, err)
			}
		}
	}
	return nil
}

// publishOrderCreated emits an order.created event. Publishing is
// best-effort: the order is already committed, so failures are logged,
// not returned.
func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping order.created event.")
		return
	}

	event := map[string]interface{}{
		"order_number": order.OrderNumber,
		"email":        order.Email,
		"order_total":  order.OrderTotal,
		"grand_total":  order.GrandTotal,
		"line_items":   len(order.LineItems),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order.created event for order %s: %v", order.OrderNumber, err)
		return
	}
	if err := s.mqClient.Publish("order.created", body); err != nil {
		log.Printf("Warning: Failed to publish order.created event for order %s: %v", order.OrderNumber, err)
		return
	}
	log.Printf("Published order.created event for order %s", order.OrderNumber)
}

// VerifyTotals recomputes the order's aggregates from its line items and
// compares them to the stored values. Drift means a line-item write
// bypassed reconciliation; it is reported, never silently corrected.
func (s *CheckoutService) VerifyTotals(orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, item := range order.LineItems {
		total = total.Add(item.LineItemTotal)
	}
	total = total.Round(2)
	delivery := s.settings.DeliveryCost(total)
	grand := total.Add(delivery).Round(2)

	if !order.OrderTotal.Equal(total) || !order.DeliveryCost.Equal(delivery) || !order.GrandTotal.Equal(grand) {
		return fmt.Errorf("order %s stored totals (%s, %s, %s) vs recomputed (%s, %s, %s): %w",
			order.OrderNumber,
			order.OrderTotal, order.DeliveryCost, order.GrandTotal,
			total, delivery, grand,
			models.ErrAggregateDrift)
	}
	return nil
}
