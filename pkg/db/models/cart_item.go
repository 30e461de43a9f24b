package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a client-identified cart. The (cart_id, product_id)
// pair is unique; re-adding a product replaces the line in place.
type CartItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         string          `gorm:"column:cart_id;not null;index:idx_cart_items_cart_product,unique"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index:idx_cart_items_cart_product,unique"`
	Product        *Product        `gorm:"foreignKey:ProductID"`
	UserID         *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	Qty            int             `gorm:"column:qty;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	SubTotal       decimal.Decimal `gorm:"column:sub_total;type:numeric(12,2);not null"`
	ShippingAmount decimal.Decimal `gorm:"column:shipping_amount;type:numeric(12,2);not null"`
	TaxFee         decimal.Decimal `gorm:"column:tax_fee;type:numeric(12,2);not null"`
	ServiceFee     decimal.Decimal `gorm:"column:service_fee;type:numeric(12,2);not null"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Size           *string         `gorm:"column:size"`
	Color          *string         `gorm:"column:color"`
	Country        *string         `gorm:"column:country"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
