package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/types"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// OrderItem snapshots one cart line at order-creation time. Monetary fields
// are frozen copies; later product price changes never touch them.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	Vendor    *Vendor   `gorm:"foreignKey:VendorID"`

	Qty            int             `gorm:"column:qty;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	SubTotal       decimal.Decimal `gorm:"column:sub_total;type:numeric(12,2);not null"`
	ShippingAmount decimal.Decimal `gorm:"column:shipping_amount;type:numeric(12,2);not null"`
	TaxFee         decimal.Decimal `gorm:"column:tax_fee;type:numeric(12,2);not null"`
	ServiceFee     decimal.Decimal `gorm:"column:service_fee;type:numeric(12,2);not null"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	InitialTotal   decimal.Decimal `gorm:"column:initial_total;type:numeric(12,2);not null"`
	Saved          decimal.Decimal `gorm:"column:saved;type:numeric(12,2);not null;default:0"`

	AppliedCoupon bool              `gorm:"column:applied_coupon;not null;default:false"`
	CouponIDs     dbtypes.UUIDArray `gorm:"type:uuid[];column:coupon_ids;not null;default:ARRAY[]::uuid[]"`

	DeliveryStatus enums.DeliveryStatus `gorm:"column:delivery_status;not null;default:'On Hold'"`

	Size    *string `gorm:"column:size"`
	Color   *string `gorm:"column:color"`
	Country *string `gorm:"column:country"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
