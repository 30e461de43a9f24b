package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is a vendor-scoped percentage discount. Codes are matched
// case-insensitively.
type Coupon struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID  uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	Vendor    *Vendor         `gorm:"foreignKey:VendorID"`
	Code      string          `gorm:"column:code;not null;uniqueIndex"`
	Discount  decimal.Decimal `gorm:"column:discount;type:numeric(6,2);not null"`
	Active    bool            `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
