package repositories

import (
	"boutique/internal/models"
)

// ProductQuery narrows and orders a catalog listing. Zero value means
// "everything, default order".
type ProductQuery struct {
	// Search matches case-insensitively against name and description.
	Search string
	// Categories restricts results to products in any of the named categories.
	Categories []string
	// SortBy is one of "price", "rating", "name", "category". Anything else
	// leaves the default ordering (name ascending).
	SortBy string
	// Direction is "asc" or "desc".
	Direction string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(query ProductQuery) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	Create(category *models.Category) error
}
