package order

import (
	"github.com/shopspring/decimal"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
)

// applyDiscountToItems rebuilds the item slice, recomputing every line that
// matches the predicate from its OriginalPrice with the given discount.
// Non-matching lines pass through untouched. It returns the new slice, the
// refs of the affected lines, and the summed per-line discount amounts.
func applyDiscountToItems(
	calc discount.Calculator,
	items []Item,
	match func(Item) bool,
	d *discount.Discount,
) ([]Item, []ItemRef, decimal.Decimal) {
	out := make([]Item, len(items))
	var affected []ItemRef
	total := decimal.Zero

	for i, it := range items {
		if !match(it) {
			out[i] = it
			continue
		}

		it.DiscountAmount = calc.Amount(d, it.OriginalPrice, it.Quantity)
		it.DiscountedPrice = calc.UnitPrice(d, it.OriginalPrice, it.Quantity)
		it.Subtotal = calc.Subtotal(d, it.OriginalPrice, it.Quantity)
		it.TaxAmount = taxAmount(it.Subtotal, it.TaxRate)
		id := d.ID
		it.DiscountID = &id
		it.DiscountType = d.Type

		out[i] = it
		affected = append(affected, ItemRef{ProductID: it.ProductID, CombinationID: it.CombinationID})
		total = total.Add(it.DiscountAmount)
	}

	return out, affected, total
}

// taxAmount computes subtotal * rate / 100 rounded to 2 decimal places.
func taxAmount(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}
