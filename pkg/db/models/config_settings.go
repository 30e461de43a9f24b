package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// ConfigSettings holds the platform-wide service-fee policy. Exactly one row
// is expected; operations load it fresh rather than caching.
type ConfigSettings struct {
	ID                   uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceFeeChargeType enums.ServiceFeeType `gorm:"column:service_fee_charge_type;not null;default:'percentage'"`
	ServiceFeePercentage decimal.Decimal      `gorm:"column:service_fee_percentage;type:numeric(6,2);not null;default:0"`
	ServiceFeeFlatRate   decimal.Decimal      `gorm:"column:service_fee_flat_rate;type:numeric(12,2);not null;default:0"`
	CreatedAt            time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the singular table name.
func (ConfigSettings) TableName() string {
	return "config_settings"
}
