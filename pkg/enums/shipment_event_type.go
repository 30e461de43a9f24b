package enums

// ShipmentEventType classifies rows in the append-only shipment audit trail.
type ShipmentEventType string

const (
	ShipmentEventCreated        ShipmentEventType = "created"
	ShipmentEventAssigned       ShipmentEventType = "assigned"
	ShipmentEventPickedUp       ShipmentEventType = "picked_up"
	ShipmentEventOutForDelivery ShipmentEventType = "out_for_delivery"
	ShipmentEventDelivered      ShipmentEventType = "delivered"
	ShipmentEventFailed         ShipmentEventType = "failed"
	ShipmentEventReturned       ShipmentEventType = "returned"
	ShipmentEventNote           ShipmentEventType = "note"
)

var validShipmentEventTypes = []ShipmentEventType{
	ShipmentEventCreated,
	ShipmentEventAssigned,
	ShipmentEventPickedUp,
	ShipmentEventOutForDelivery,
	ShipmentEventDelivered,
	ShipmentEventFailed,
	ShipmentEventReturned,
	ShipmentEventNote,
}

// String implements fmt.Stringer.
func (s ShipmentEventType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentEventType.
func (s ShipmentEventType) IsValid() bool {
	for _, candidate := range validShipmentEventTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// EventTypeForStatus maps a shipment status onto an audit event type, falling
// back to a note when the status has no dedicated event.
func EventTypeForStatus(status ShipmentStatus) ShipmentEventType {
	candidate := ShipmentEventType(status)
	if candidate.IsValid() {
		return candidate
	}
	return ShipmentEventNote
}
