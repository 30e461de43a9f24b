package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func percentPolicy(pct string) ServiceFeePolicy {
	return ServiceFeePolicy{
		ChargeType: enums.ServiceFeeTypePercentage,
		Percentage: dec(pct),
	}
}

func TestQuoteBreakdowns(t *testing.T) {
	tests := []struct {
		name     string
		input    QuoteInput
		subTotal string
		shipping string
		taxFee   string
		fee      string
		total    string
	}{
		{
			name: "percentage fee with taxed country",
			input: QuoteInput{
				Price:        dec("10.00"),
				Qty:          2,
				ShippingRate: dec("1.50"),
				TaxRate:      dec("5.00"),
				Fee:          percentPolicy("10.00"),
			},
			subTotal: "20.00",
			shipping: "3.00",
			taxFee:   "0.10",
			fee:      "2.00",
			total:    "25.10",
		},
		{
			name: "flat fee without tax",
			input: QuoteInput{
				Price:        dec("19.99"),
				Qty:          3,
				ShippingRate: dec("0.00"),
				Fee: ServiceFeePolicy{
					ChargeType: enums.ServiceFeeTypeFlat,
					FlatRate:   dec("2.50"),
				},
			},
			subTotal: "59.97",
			shipping: "0.00",
			taxFee:   "0.00",
			fee:      "2.50",
			total:    "62.47",
		},
		{
			name: "single unit exact cents",
			input: QuoteInput{
				Price:        dec("0.99"),
				Qty:          1,
				ShippingRate: dec("0.25"),
				TaxRate:      dec("7.25"),
				Fee:          percentPolicy("5.00"),
			},
			subTotal: "0.99",
			shipping: "0.25",
			taxFee:   "0.07",
			fee:      "0.05",
			total:    "1.36",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertDecimal(t, "sub_total", got.SubTotal, tt.subTotal)
			assertDecimal(t, "shipping_amount", got.ShippingAmount, tt.shipping)
			assertDecimal(t, "tax_fee", got.TaxFee, tt.taxFee)
			assertDecimal(t, "service_fee", got.ServiceFee, tt.fee)
			assertDecimal(t, "total", got.Total, tt.total)

			sum := got.SubTotal.Add(got.ShippingAmount).Add(got.ServiceFee).Add(got.TaxFee)
			if !got.Total.Equal(sum) {
				t.Fatalf("total %s is not the sum of components %s", got.Total, sum)
			}
		})
	}
}

func TestQuoteRejectsBadInput(t *testing.T) {
	base := QuoteInput{
		Price:        dec("10.00"),
		Qty:          1,
		ShippingRate: dec("1.00"),
		Fee:          percentPolicy("10.00"),
	}

	zeroQty := base
	zeroQty.Qty = 0
	negativePrice := base
	negativePrice.Price = dec("-1.00")
	negativeTax := base
	negativeTax.TaxRate = dec("-5.00")
	badPolicy := base
	badPolicy.Fee = ServiceFeePolicy{ChargeType: enums.ServiceFeeType("tiered")}

	for name, input := range map[string]QuoteInput{
		"zero quantity":  zeroQty,
		"negative price": negativePrice,
		"negative tax":   negativeTax,
		"unknown policy": badPolicy,
	} {
		if _, err := Quote(input); err == nil {
			t.Fatalf("%s: expected validation error", name)
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation code, got %v", name, err)
		}
	}
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s got %s", field, want, got)
	}
}
