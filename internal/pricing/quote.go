package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// ServiceFeePolicy is the platform fee configuration loaded from
// config_settings at the start of each operation. Callers pass it in
// explicitly; the calculator never reads global state.
type ServiceFeePolicy struct {
	ChargeType enums.ServiceFeeType
	Percentage decimal.Decimal
	FlatRate   decimal.Decimal
}

// QuoteInput carries everything needed to price one cart line.
type QuoteInput struct {
	Price          decimal.Decimal
	Qty            int
	ShippingRate   decimal.Decimal
	// TaxRate is the percentage for the shipping country; zero when the
	// country is unknown or untaxed.
	TaxRate decimal.Decimal
	Fee     ServiceFeePolicy
}

// QuoteBreakdown is the priced line. Total is always the sum of the four
// components.
type QuoteBreakdown struct {
	SubTotal       decimal.Decimal
	ShippingAmount decimal.Decimal
	TaxFee         decimal.Decimal
	ServiceFee     decimal.Decimal
	Total          decimal.Decimal
}

// Quote prices a single line with exact decimal arithmetic.
//
// The tax fee is deliberately qty x (rate/100), a flat per-unit charge rather
// than a percentage of the subtotal. That is the pricing rule the platform
// has always shipped with and downstream totals depend on it.
func Quote(in QuoteInput) (QuoteBreakdown, error) {
	if in.Qty < 1 {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if in.Price.IsNegative() {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if in.ShippingRate.IsNegative() {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping rate must not be negative")
	}
	if in.TaxRate.IsNegative() {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must not be negative")
	}
	if err := validatePolicy(in.Fee); err != nil {
		return QuoteBreakdown{}, err
	}

	qty := decimal.NewFromInt(int64(in.Qty))

	subTotal := in.Price.Mul(qty)
	shipping := in.ShippingRate.Mul(qty)
	taxFee := qty.Mul(in.TaxRate.Div(oneHundred))

	var serviceFee decimal.Decimal
	switch in.Fee.ChargeType {
	case enums.ServiceFeeTypePercentage:
		serviceFee = in.Fee.Percentage.Div(oneHundred).Mul(subTotal)
	case enums.ServiceFeeTypeFlat:
		serviceFee = in.Fee.FlatRate
	}

	// Components are rounded to cents before summing so the stored total is
	// always the exact sum of the stored components.
	breakdown := QuoteBreakdown{
		SubTotal:       subTotal.Round(2),
		ShippingAmount: shipping.Round(2),
		TaxFee:         taxFee.Round(2),
		ServiceFee:     serviceFee.Round(2),
	}
	breakdown.Total = breakdown.SubTotal.
		Add(breakdown.ShippingAmount).
		Add(breakdown.ServiceFee).
		Add(breakdown.TaxFee)

	return breakdown, nil
}

func validatePolicy(fee ServiceFeePolicy) error {
	if !fee.ChargeType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown service fee charge type")
	}
	if fee.Percentage.IsNegative() || fee.FlatRate.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "service fee must not be negative")
	}
	return nil
}
