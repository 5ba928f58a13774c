package discount

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Calculator computes discount amounts and discounted prices for a line of
// quantity units at a given unit price. All methods are pure and total over
// non-negative inputs; a nil discount yields zero.
//
// The zero value reproduces the legacy behaviour of the back office, where a
// fixed discount is Value per unit, NOT capped at the line subtotal and thus
// able to push a line subtotal negative. Set CapFixed to cap fixed discounts
// at the subtotal being discounted, the same way percentage discounts always
// are.
type Calculator struct {
	CapFixed bool
}

// Amount returns the total discount for quantity units at unitPrice.
// Percentage discounts are capped at the line subtotal; a discount of an
// unknown type yields zero.
func (c Calculator) Amount(d *Discount, unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if d == nil {
		return zero
	}

	qty := decimal.NewFromInt(int64(quantity))
	subtotal := unitPrice.Mul(qty)

	var amount decimal.Decimal
	switch d.Type {
	case TypePercentage:
		amount = decimal.Min(subtotal.Mul(d.Value).Div(hundred), subtotal)
	case TypeFixed:
		amount = d.Value.Mul(qty)
		if c.CapFixed {
			amount = decimal.Min(amount, subtotal)
		}
	default:
		return zero
	}

	return floorAtZero(amount).Round(2)
}

// UnitPrice returns the per-unit price after the discount, floored at zero.
func (c Calculator) UnitPrice(d *Discount, unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity == 0 {
		return floorAtZero(unitPrice).Round(2)
	}

	perUnit := c.Amount(d, unitPrice, quantity).Div(decimal.NewFromInt(int64(quantity)))
	return floorAtZero(unitPrice.Sub(perUnit)).Round(2)
}

// Subtotal returns unitPrice*quantity minus the discount. It is not floored
// at zero: an uncapped fixed discount can overshoot the line.
func (c Calculator) Subtotal(d *Discount, unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))
	return unitPrice.Mul(qty).Sub(c.Amount(d, unitPrice, quantity)).Round(2)
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
