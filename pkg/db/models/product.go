package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// Product is a catalog item sold by a vendor. InStock is maintained by a
// database trigger whenever StockQty changes; application code treats it as
// read-only.
type Product struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID       uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	Vendor         *Vendor             `gorm:"foreignKey:VendorID"`
	CategoryID     *uuid.UUID          `gorm:"column:category_id;type:uuid;index"`
	Category       *Category           `gorm:"foreignKey:CategoryID"`
	BrandID        *uuid.UUID          `gorm:"column:brand_id;type:uuid;index"`
	Brand          *Brand              `gorm:"foreignKey:BrandID"`
	Title          string              `gorm:"column:title;not null"`
	Slug           string              `gorm:"column:slug;not null;uniqueIndex"`
	Description    *string             `gorm:"column:description"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	ShippingAmount decimal.Decimal     `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	StockQty       int                 `gorm:"column:stock_qty;not null;default:0"`
	InStock        bool                `gorm:"column:in_stock;not null;default:false"`
	Status         enums.ProductStatus `gorm:"column:status;not null;default:'draft'"`
	Featured       bool                `gorm:"column:featured;not null;default:false"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Purchasable reports whether the product can be added to a cart.
func (p Product) Purchasable() bool {
	return p.Status == enums.ProductStatusPublished && p.InStock
}
