package enums

// OrderStatus tracks order fulfillment independent of payment.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusFulfilled OrderStatus = "Fulfilled"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	switch o {
	case OrderStatusPending, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}
