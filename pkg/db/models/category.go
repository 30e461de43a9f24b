package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for storefront browsing. Image holds a storage
// object key, not a URL.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Image     *string   `gorm:"column:image"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
