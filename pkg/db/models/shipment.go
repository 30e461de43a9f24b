package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// Shipment is the one-per-order delivery record. PickedUpAt and DeliveredAt
// are first-write-wins: once set they are never overwritten.
type Shipment struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Order        *Order               `gorm:"foreignKey:OrderID"`
	CourierID    *uuid.UUID           `gorm:"column:courier_id;type:uuid;index"`
	Courier      *User                `gorm:"foreignKey:CourierID"`
	AssignedByID *uuid.UUID           `gorm:"column:assigned_by_id;type:uuid"`
	Status       enums.ShipmentStatus `gorm:"column:status;not null;default:'pending_assignment'"`
	AssignedAt   *time.Time           `gorm:"column:assigned_at"`
	PickedUpAt   *time.Time           `gorm:"column:picked_up_at"`
	DeliveredAt  *time.Time           `gorm:"column:delivered_at"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
