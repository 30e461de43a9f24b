package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is buyer feedback on a product.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	User      *User     `gorm:"foreignKey:UserID"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Rating    int       `gorm:"column:rating;not null"`
	Review    string    `gorm:"column:review;not null"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
