package service

import (
	"github.com/01-Gira/store-app-sub000/internal/apierror"

	"github.com/shopspring/decimal"
)

// Discount types accepted at settlement.
const (
	DiscountPercentage = "percentage"
	DiscountValue      = "value"
)

var hundred = decimal.NewFromInt(100)

// Discount is a validated discount spec. A nil *Discount means no discount.
type Discount struct {
	Type  string
	Value decimal.Decimal
}

// PriceBreakdown holds every derived figure of the pricing computation.
// Each field is rounded exactly once; intermediate math is exact decimal.
type PriceBreakdown struct {
	Subtotal           decimal.Decimal
	TaxTotal           decimal.Decimal
	GrossTotal         decimal.Decimal
	DiscountTotal      decimal.Decimal
	TotalAfterDiscount decimal.Decimal
}

// PricingEngine computes subtotal, tax and discount for a cart. It is pure:
// no repository access, no side effects, safe to call concurrently.
type PricingEngine struct{}

func NewPricingEngine() *PricingEngine { return &PricingEngine{} }

// round2 applies the standard half-up rounding to 2 decimal places used for
// every derived monetary field. All inputs are non-negative, so decimal's
// half-away-from-zero Round is exactly half-up here.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// ParseDiscount validates the optional (type, value) pair from the request.
// A value without a type fails with MissingDiscountType; a percentage
// outside [0,100] or any negative value fails with InvalidDiscountValue.
func (e *PricingEngine) ParseDiscount(dtype *string, dvalue *decimal.Decimal) (*Discount, error) {
	if dvalue == nil {
		if dtype != nil {
			// A bare type with no value is treated as no discount.
			return nil, nil
		}
		return nil, nil
	}
	if dtype == nil {
		return nil, apierror.MissingDiscountType()
	}
	v := *dvalue
	if v.IsNegative() {
		return nil, apierror.InvalidDiscountValue("discount_value must not be negative")
	}
	switch *dtype {
	case DiscountPercentage:
		if v.GreaterThan(hundred) {
			return nil, apierror.InvalidDiscountValue("percentage discount must be between 0 and 100")
		}
	case DiscountValue:
		// fixed discounts are capped at the gross total during pricing
	default:
		return nil, apierror.InvalidDiscountValue("discount_type must be percentage or value")
	}
	return &Discount{Type: *dtype, Value: v}, nil
}

// Price computes the full breakdown for the given cart lines, tax rate
// percentage and validated discount.
//
//	subtotal        = Σ(unit_price × quantity)        (exact, not rounded)
//	tax_total       = round(subtotal × rate/100, 2)
//	gross           = subtotal + tax_total
//	discount_total  = round(gross × pct/100, 2)       (percentage)
//	                = round(min(value, gross), 2)     (fixed, never exceeds gross)
//	total           = round(max(gross − discount, 0), 2)
func (e *PricingEngine) Price(lines []CartLine, taxRatePct decimal.Decimal, d *Discount) *PriceBreakdown {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	taxTotal := round2(subtotal.Mul(taxRatePct).Div(hundred))
	gross := subtotal.Add(taxTotal)

	discountTotal := decimal.Zero
	if d != nil {
		switch d.Type {
		case DiscountPercentage:
			discountTotal = round2(gross.Mul(d.Value).Div(hundred))
		case DiscountValue:
			discountTotal = round2(decimal.Min(d.Value, gross))
		}
	}

	total := round2(decimal.Max(gross.Sub(discountTotal), decimal.Zero))

	return &PriceBreakdown{
		Subtotal:           subtotal,
		TaxTotal:           taxTotal,
		GrossTotal:         gross,
		DiscountTotal:      discountTotal,
		TotalAfterDiscount: total,
	}
}

// LineTax is the per-line tax snapshot stored on transaction items.
func (e *PricingEngine) LineTax(line CartLine, taxRatePct decimal.Decimal) decimal.Decimal {
	return round2(line.Subtotal().Mul(taxRatePct).Div(hundred))
}
