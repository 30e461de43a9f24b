package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a best-effort in-app alert raised when an order is paid.
// Exactly one of UserID/VendorID is set depending on the audience.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	VendorID    *uuid.UUID `gorm:"column:vendor_id;type:uuid;index"`
	OrderID     *uuid.UUID `gorm:"column:order_id;type:uuid"`
	OrderItemID *uuid.UUID `gorm:"column:order_item_id;type:uuid"`
	Seen        bool       `gorm:"column:seen;not null;default:false"`
	SeenAt      *time.Time `gorm:"column:seen_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
