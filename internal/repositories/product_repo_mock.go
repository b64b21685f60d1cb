package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"boutique/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns products matching the query, sorted like the GORM
// implementation would sort them.
func (r *MockProductRepository) GetAll(query ProductQuery) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		if len(query.Categories) > 0 {
			if p.Category == nil {
				continue
			}
			matched := false
			for _, name := range query.Categories {
				if p.Category.Name == name {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		productList = append(productList, p)
	}

	sort.Slice(productList, func(i, j int) bool {
		a, b := productList[i], productList[j]
		less := false
		switch query.SortBy {
		case "price":
			less = a.Price.LessThan(b.Price)
		case "rating":
			switch {
			case a.Rating == nil:
				less = true
			case b.Rating == nil:
				less = false
			default:
				less = a.Rating.LessThan(*b.Rating)
			}
		case "category":
			an, bn := "", ""
			if a.Category != nil {
				an = a.Category.Name
			}
			if b.Category != nil {
				bn = b.Category.Name
			}
			less = an < bn
		default:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		if query.Direction == "desc" {
			return !less
		}
		return less
	})

	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrProductNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, models.ErrProductNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, models.ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}
