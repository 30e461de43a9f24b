package enums

import "fmt"

// ShipmentStatus tracks the courier-facing shipment state machine.
type ShipmentStatus string

const (
	ShipmentStatusPendingAssignment ShipmentStatus = "pending_assignment"
	ShipmentStatusAssigned          ShipmentStatus = "assigned"
	ShipmentStatusPickedUp          ShipmentStatus = "picked_up"
	ShipmentStatusOutForDelivery    ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered         ShipmentStatus = "delivered"
	ShipmentStatusFailed            ShipmentStatus = "failed"
	ShipmentStatusReturned          ShipmentStatus = "returned"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPendingAssignment,
	ShipmentStatusAssigned,
	ShipmentStatusPickedUp,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusFailed,
	ShipmentStatusReturned,
}

// String implements fmt.Stringer.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
