package services

import (
	"fmt"
	"sort"

	"boutique/internal/models"
	"boutique/internal/repositories"

	"github.com/shopspring/decimal"
)

// PricedItem is one priced line of the bag, derived on every call and
// never stored.
type PricedItem struct {
	Product  *models.Product `json:"product"`
	Size     string          `json:"size,omitempty"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// BagTotals summarizes a priced bag. All currency values are rounded
// half-up to 2 decimal places.
type BagTotals struct {
	Total             decimal.Decimal `json:"total"`
	ProductCount      int             `json:"product_count"`
	Delivery          decimal.Decimal `json:"delivery"`
	FreeDeliveryDelta decimal.Decimal `json:"free_delivery_delta"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
}

// PricingService turns a session bag into priced line items and totals.
// It reads product prices and nothing else.
type PricingService struct {
	productRepo repositories.ProductRepository
	settings    models.DeliverySettings
}

// NewPricingService creates a new PricingService.
func NewPricingService(productRepo repositories.ProductRepository, settings models.DeliverySettings) *PricingService {
	return &PricingService{
		productRepo: productRepo,
		settings:    settings,
	}
}

// PriceBag resolves every bag entry against the catalog and returns the
// priced line items plus totals. Pricing is all-or-nothing: a bag entry
// whose product no longer exists fails the whole call with
// ErrStaleBagEntry rather than silently under-charging.
func (s *PricingService) PriceBag(bag models.Bag) ([]PricedItem, BagTotals, error) {
	items := make([]PricedItem, 0, len(bag))
	total := decimal.Zero
	productCount := 0

	// Stable output: map iteration order is random.
	productIDs := make([]string, 0, len(bag))
	for id := range bag {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	for _, productID := range productIDs {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, BagTotals{}, fmt.Errorf("pricing bag entry %s: %w (%w)", productID, models.ErrStaleBagEntry, err)
		}

		entry := bag[productID]
		if !entry.Sized() {
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity)))
			items = append(items, PricedItem{
				Product:  product,
				Quantity: entry.Quantity,
				Subtotal: subtotal,
			})
			total = total.Add(subtotal)
			productCount += entry.Quantity
			continue
		}

		sizes := make([]string, 0, len(entry.Sizes))
		for size := range entry.Sizes {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)

		for _, size := range sizes {
			quantity := entry.Sizes[size]
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
			items = append(items, PricedItem{
				Product:  product,
				Size:     size,
				Quantity: quantity,
				Subtotal: subtotal,
			})
			total = total.Add(subtotal)
			productCount += quantity
		}
	}

	total = total.Round(2)
	delivery := s.settings.DeliveryCost(total)
	totals := BagTotals{
		Total:             total,
		ProductCount:      productCount,
		Delivery:          delivery,
		FreeDeliveryDelta: s.settings.FreeDeliveryDelta(total),
		GrandTotal:        total.Add(delivery).Round(2),
	}
	return items, totals, nil
}
