package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
)

// AutomaticResolver selects system-applied discounts for an order or a
// single line. Both operations short-circuit to "no discount" for orders in
// edit mode: re-evaluating rules against an already persisted order would
// silently overwrite server-authoritative values.
type AutomaticResolver struct {
	calc discount.Calculator
	now  func() time.Time
}

// NewAutomaticResolver creates an AutomaticResolver with the given money
// calculator.
func NewAutomaticResolver(calc discount.Calculator) *AutomaticResolver {
	return &AutomaticResolver{calc: calc, now: time.Now}
}

// OrderDiscount resolves the automatic order-level discount amount for the
// order's current subtotal. Among the applicable automatic order-total
// discounts whose minimum (if any) the subtotal clears, the single discount
// with the highest raw Value wins; the first encountered wins exact ties.
// The comparison is on Value, not on the resulting amount, so a fixed 15
// beats a percentage 10 regardless of what they ultimately yield.
func (r *AutomaticResolver) OrderDiscount(c *discount.Catalog, o *Order) decimal.Decimal {
	if o.IsEdit {
		return decimal.Zero
	}

	now := r.now()
	var best *discount.Discount
	for _, d := range c.AutomaticOrderLevel() {
		if !discount.IsApplicable(d, now) || !discount.MeetsMinimum(d, o.Subtotal) {
			continue
		}
		if best == nil || d.Value.GreaterThan(best.Value) {
			best = &d
		}
	}

	if best == nil {
		return decimal.Zero
	}
	return r.calc.Amount(best, o.Subtotal, 1)
}

// ItemDiscount resolves the automatic discount for a product variant from
// the product's own associated discounts. Only the pivot of this product's
// association counts: the first applicable automatic entry whose ref for
// productID carries the requested combination wins; with no priority
// contract upstream, ties resolve by catalog order.
func (r *AutomaticResolver) ItemDiscount(
	productDiscounts []discount.Discount,
	productID int64,
	combinationID *int64,
	isEdit bool,
) *discount.Discount {
	if isEdit {
		return nil
	}

	now := r.now()
	for _, d := range discount.AutomaticForProduct(productDiscounts) {
		if !discount.IsApplicable(d, now) {
			continue
		}
		for _, ref := range d.Products {
			if ref.ProductID == productID && combinationMatches(ref.CombinationID, combinationID) {
				return &d
			}
		}
	}
	return nil
}

// combinationMatches reports whether a pivot combination targets the
// requested variant: both nil (base product) or both set and equal.
func combinationMatches(pivot, requested *int64) bool {
	if pivot == nil || requested == nil {
		return pivot == nil && requested == nil
	}
	return *pivot == *requested
}
