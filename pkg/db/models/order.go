package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/types"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// Order aggregates a snapshot of cart lines taken at checkout. OID is the
// external identifier shared with the payment provider and buyers; the uuid
// primary key stays internal.
type Order struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OID     string     `gorm:"column:oid;not null;uniqueIndex"`
	BuyerID *uuid.UUID `gorm:"column:buyer_id;type:uuid;index"`
	Buyer   *User      `gorm:"foreignKey:BuyerID"`

	FullName string  `gorm:"column:full_name;not null"`
	Email    string  `gorm:"column:email;not null"`
	Mobile   *string `gorm:"column:mobile"`
	Address  *string `gorm:"column:address"`
	City     *string `gorm:"column:city"`
	State    *string `gorm:"column:state"`
	Country  *string `gorm:"column:country"`

	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'processing'"`
	OrderStatus   enums.OrderStatus   `gorm:"column:order_status;not null;default:'Pending'"`

	SubTotal       decimal.Decimal `gorm:"column:sub_total;type:numeric(12,2);not null;default:0"`
	ShippingAmount decimal.Decimal `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	TaxFee         decimal.Decimal `gorm:"column:tax_fee;type:numeric(12,2);not null;default:0"`
	ServiceFee     decimal.Decimal `gorm:"column:service_fee;type:numeric(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	// InitialTotal freezes the pre-discount total; Saved accumulates coupon
	// discounts applied after creation.
	InitialTotal decimal.Decimal `gorm:"column:initial_total;type:numeric(12,2);not null;default:0"`
	Saved        decimal.Decimal `gorm:"column:saved;type:numeric(12,2);not null;default:0"`

	StripeSessionID *string           `gorm:"column:stripe_session_id;index"`
	VendorIDs       dbtypes.UUIDArray `gorm:"type:uuid[];column:vendor_ids;not null;default:ARRAY[]::uuid[]"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
