package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand labels products with a manufacturer. Image holds a storage object
// key, not a URL.
type Brand struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Image     *string   `gorm:"column:image"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
