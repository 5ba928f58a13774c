// Package discount defines the pricing rules of the back office and the
// arithmetic used to apply them to order lines.
package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enumerates the supported discount value strategies.
type Type string

const (
	// TypePercentage applies a percentage of the discounted subtotal.
	TypePercentage Type = "percentage"
	// TypeFixed applies a fixed monetary amount per unit.
	TypeFixed Type = "fixed"
)

// Scope enumerates what a discount applies to. Exactly one scope holds for
// any rule; Products/Categories are populated only when the scope needs them.
type Scope string

const (
	// ScopeOrderTotal discounts the order subtotal as a whole.
	ScopeOrderTotal Scope = "order_total"
	// ScopeProduct discounts the lines of specific products.
	ScopeProduct Scope = "product"
	// ScopeCategory discounts the lines whose product shares a category.
	ScopeCategory Scope = "category"
)

// ProductRef associates a discount with a product. CombinationID ties an
// automatic discount to a specific variant; nil means the base product.
type ProductRef struct {
	ProductID     int64  `json:"product_id"`
	CombinationID *int64 `json:"combination_id"`
}

// Discount is a single pricing rule from the catalog. Rules are created and
// edited by the admin collaborator and are read-only to this engine.
type Discount struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Type      Type            `json:"discount_type"`
	Value     decimal.Decimal `json:"value"`
	Scope     Scope           `json:"applies_to"`
	Automatic bool            `json:"automatic"`
	Active    bool            `json:"is_active"`

	// Nil StartsAt means open from the beginning of time; nil EndsAt means
	// open-ended. Both bounds are inclusive.
	StartsAt *time.Time `json:"start_date"`
	EndsAt   *time.Time `json:"end_date"`

	// MinimumOrderAmount gates application on the order subtotal when set.
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount"`

	Products   []ProductRef `json:"products,omitempty"`
	Categories []int64      `json:"categories,omitempty"`
}

// IsApplicable reports whether the discount is usable at the given instant:
// active and inside its optional date window.
func IsApplicable(d Discount, now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}

// MeetsMinimum reports whether the given subtotal clears the discount's
// minimum order amount. A discount without a minimum always qualifies.
func MeetsMinimum(d Discount, subtotal decimal.Decimal) bool {
	return d.MinimumOrderAmount == nil || subtotal.GreaterThanOrEqual(*d.MinimumOrderAmount)
}
