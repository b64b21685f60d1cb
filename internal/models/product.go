package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products in the catalog.
type Category struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string `json:"name" gorm:"uniqueIndex;type:varchar(254)" validate:"required,max=254"`
	FriendlyName string `json:"friendly_name" gorm:"type:varchar(254)" validate:"omitempty,max=254"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// DisplayName returns the human readable name, falling back to the
// internal one when no friendly name is set.
func (c Category) DisplayName() string {
	if c.FriendlyName != "" {
		return c.FriendlyName
	}
	return c.Name
}

// Product represents a single product available in the store.
type Product struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CategoryID  *string          `json:"category_id,omitempty" gorm:"type:varchar(36)"`
	Category    *Category        `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	SKU         string           `json:"sku" gorm:"index;type:varchar(254)" validate:"omitempty,max=254"`
	Name        string           `json:"name" gorm:"index;type:varchar(254)" validate:"required,min=3,max=254"`
	Description string           `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal  `json:"price" gorm:"type:decimal(7,2)"`
	Rating      *decimal.Decimal `json:"rating,omitempty" gorm:"type:decimal(3,1)"`
	ImageURL    string           `json:"image_url" validate:"omitempty,url,max=1024"`
	IsActive    bool             `json:"is_active" gorm:"default:true"`
	gorm.Model                   // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
