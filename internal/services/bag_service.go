package services

import (
	"fmt"
	"strings"

	"boutique/internal/models"
	"boutique/internal/repositories"
)

// BagService applies the user-facing bag mutations. Each operation
// validates the product exists, mutates the bag in place, and returns a
// feedback message for the caller.
type BagService struct {
	productRepo repositories.ProductRepository
}

// NewBagService creates a new BagService.
func NewBagService(productRepo repositories.ProductRepository) *BagService {
	return &BagService{
		productRepo: productRepo,
	}
}

// AddToBag adds a quantity of the product (optionally in a size) to the
// bag. Quantities are clamped to the allowed range.
func (s *BagService) AddToBag(bag models.Bag, productID, size string, quantity int) (string, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return "", err
	}

	bag.Add(productID, size, quantity)

	if size != "" {
		return fmt.Sprintf("Added size %s %s to your bag", strings.ToUpper(size), product.Name), nil
	}
	return fmt.Sprintf("Added %s to your bag", product.Name), nil
}

// UpdateBag sets the quantity for (product, size) to an explicit value.
// Zero removes the entry; positive values overwrite the prior quantity.
func (s *BagService) UpdateBag(bag models.Bag, productID, size string, quantity int) (string, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return "", err
	}

	if err := bag.Update(productID, size, quantity); err != nil {
		return "", fmt.Errorf("updating %s: %w", product.Name, err)
	}

	if quantity < models.MinBagQuantity {
		return fmt.Sprintf("Removed %s from your bag", product.Name), nil
	}
	return fmt.Sprintf("Updated %s quantity in your bag", product.Name), nil
}

// RemoveFromBag deletes a (product, size) or whole-product entry.
func (s *BagService) RemoveFromBag(bag models.Bag, productID, size string) (string, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return "", err
	}

	if err := bag.Remove(productID, size); err != nil {
		return "", fmt.Errorf("removing %s: %w", product.Name, err)
	}
	return fmt.Sprintf("Removed %s from your bag", product.Name), nil
}
