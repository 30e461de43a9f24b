package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// ShipmentEvent is an append-only audit row. Events are never updated or
// deleted after insert.
type ShipmentEvent struct {
	ID          uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShipmentID  uuid.UUID               `gorm:"column:shipment_id;type:uuid;not null;index"`
	EventType   enums.ShipmentEventType `gorm:"column:event_type;not null"`
	Message     string                  `gorm:"column:message;not null"`
	CreatedByID *uuid.UUID              `gorm:"column:created_by_id;type:uuid"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
}
