package order

import (
	"time"

	"github.com/go-faster/errors"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
)

// Rejection reasons for manual discount application. All are recoverable,
// user-facing conditions: the caller shows a message and the order is left
// with its manual bookkeeping reset.
var (
	// ErrInvalidCode means the code matches no active, date-valid,
	// non-automatic discount.
	ErrInvalidCode = errors.New("invalid discount code")
	// ErrMinimumNotMet means the order subtotal is below the discount's floor.
	ErrMinimumNotMet = errors.New("minimum order amount not met")
	// ErrNoProductsConfigured means a product-scoped discount has no
	// associated products.
	ErrNoProductsConfigured = errors.New("discount has no products configured")
	// ErrNoCategoriesConfigured means a category-scoped discount has no
	// associated categories.
	ErrNoCategoriesConfigured = errors.New("discount has no categories configured")
	// ErrNoEligibleItems means none of the order lines qualify for the
	// discount's scope.
	ErrNoEligibleItems = errors.New("no eligible items for discount")
)

// ManualResolver applies a user-entered discount code to an order across the
// three scopes: order total, product, and category.
type ManualResolver struct {
	calc discount.Calculator
	now  func() time.Time
}

// NewManualResolver creates a ManualResolver with the given money calculator.
func NewManualResolver(calc discount.Calculator) *ManualResolver {
	return &ManualResolver{calc: calc, now: time.Now}
}

// Apply resolves code against the catalog and applies it to the order in
// place. On rejection it resets the order's manual bookkeeping and returns
// one of the sentinel errors above.
//
// Applying the same code twice to an unchanged order is a fixpoint: eligible
// lines are always recomputed from OriginalPrice, never compounded.
func (r *ManualResolver) Apply(code string, c *discount.Catalog, o *Order) error {
	// Edit-mode freeze: a persisted order's discounts are server
	// authoritative; nothing is recomputed or mutated.
	if o.IsEdit {
		return nil
	}

	d := c.ManualByCode(code, r.now())
	if d == nil {
		o.resetManualDiscount()
		return ErrInvalidCode
	}

	switch d.Scope {
	case discount.ScopeOrderTotal:
		return r.applyOrderTotal(d, o)
	case discount.ScopeProduct:
		if len(d.Products) == 0 {
			o.resetManualDiscount()
			return ErrNoProductsConfigured
		}
		products := make(map[int64]struct{}, len(d.Products))
		for _, ref := range d.Products {
			products[ref.ProductID] = struct{}{}
		}
		return r.applyToLines(d, o, func(it Item) bool {
			_, ok := products[it.ProductID]
			return ok
		})
	case discount.ScopeCategory:
		if len(d.Categories) == 0 {
			o.resetManualDiscount()
			return ErrNoCategoriesConfigured
		}
		return r.applyToLines(d, o, func(it Item) bool {
			return it.InCategory(d.Categories)
		})
	default:
		o.resetManualDiscount()
		return ErrInvalidCode
	}
}

// applyOrderTotal applies an order-total scoped discount: no lines are
// touched, only the order's manual bookkeeping.
func (r *ManualResolver) applyOrderTotal(d *discount.Discount, o *Order) error {
	if !discount.MeetsMinimum(*d, o.Subtotal) {
		o.resetManualDiscount()
		return ErrMinimumNotMet
	}

	o.ManualDiscountCode = d.Code
	o.ManualDiscountAmount = r.calc.Amount(d, o.Subtotal, 1)
	o.AppliedTo = nil
	return nil
}

// applyToLines applies a product- or category-scoped discount to the lines
// selected by match. The minimum gate runs before any mutation, against the
// undiscounted base subtotal, so a failed gate leaves the lines untouched
// and a repeat application sees the same gate input.
func (r *ManualResolver) applyToLines(d *discount.Discount, o *Order, match func(Item) bool) error {
	if !discount.MeetsMinimum(*d, o.BaseSubtotal()) {
		o.resetManualDiscount()
		return ErrMinimumNotMet
	}

	eligible := false
	for _, it := range o.Items {
		if match(it) {
			eligible = true
			break
		}
	}
	if !eligible {
		o.resetManualDiscount()
		return ErrNoEligibleItems
	}

	items, affected, total := applyDiscountToItems(r.calc, o.Items, match, d)
	o.Items = items
	o.AppliedTo = affected
	o.ManualDiscountCode = d.Code
	o.ManualDiscountAmount = total
	o.RecalcSubtotal()
	return nil
}
