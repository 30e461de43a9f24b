package models

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseManagerProfile marks a user as an active warehouse manager who may
// assign couriers to paid orders.
type WarehouseManagerProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	User      *User     `gorm:"foreignKey:UserID"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
