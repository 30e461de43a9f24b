package enums

// DeliveryStatus tracks per-item delivery progress on an order.
type DeliveryStatus string

const (
	DeliveryStatusOnHold    DeliveryStatus = "On Hold"
	DeliveryStatusShipping  DeliveryStatus = "Shipping"
	DeliveryStatusDelivered DeliveryStatus = "Delivered"
)

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	switch d {
	case DeliveryStatusOnHold, DeliveryStatusShipping, DeliveryStatusDelivered:
		return true
	}
	return false
}
