// Package order models an order snapshot and the resolvers that select and
// apply discounts to its lines.
package order

import (
	"github.com/shopspring/decimal"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
)

// Item is a priced line in an order. DiscountedPrice, Subtotal and TaxAmount
// are always derived from OriginalPrice, never compounded on each other.
type Item struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"product_id"`
	CombinationID *int64 `json:"combination_id"`
	Quantity      int    `json:"quantity"`

	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`

	// TaxRate is a percentage; TaxAmount = Subtotal * TaxRate / 100 and is
	// recomputed whenever Subtotal changes.
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`

	DiscountID     *int64          `json:"discount_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountType   discount.Type   `json:"discount_type,omitempty"`

	Categories []int64 `json:"categories"`
}

// LineTotal returns OriginalPrice * Quantity, the line value before any
// discount.
func (it Item) LineTotal() decimal.Decimal {
	return it.OriginalPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// InCategory reports whether the item shares at least one category with ids.
func (it Item) InCategory(ids []int64) bool {
	for _, have := range it.Categories {
		for _, want := range ids {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ItemRef records which line a manual discount was applied to.
type ItemRef struct {
	ProductID     int64  `json:"product_id"`
	CombinationID *int64 `json:"combination_id"`
}

// Order is an aggregate of items plus the manual-discount bookkeeping the
// resolvers maintain. IsEdit marks the reconciliation of an already
// persisted order: while set, automatic and manual recomputation is frozen
// so server-authoritative values survive untouched.
type Order struct {
	ID      int64  `json:"id"`
	StoreID *int64 `json:"store_id"`
	Items   []Item `json:"items"`

	// Subtotal is the sum of item subtotals.
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`

	IsEdit bool `json:"-"`

	ManualDiscountCode   string          `json:"manual_discount_code,omitempty"`
	ManualDiscountAmount decimal.Decimal `json:"manual_discount_amount"`

	// AppliedTo tracks the lines the manual discount landed on.
	AppliedTo []ItemRef `json:"-"`
}

// BaseSubtotal returns the undiscounted order value, the sum of
// OriginalPrice * Quantity across all lines.
func (o *Order) BaseSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// RecalcSubtotal re-derives Subtotal from the current item subtotals.
func (o *Order) RecalcSubtotal() {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Subtotal)
	}
	o.Subtotal = sum.Round(2)
}

// resetManualDiscount clears the manual bookkeeping after a rejection.
func (o *Order) resetManualDiscount() {
	o.ManualDiscountCode = ""
	o.ManualDiscountAmount = decimal.Zero
	o.AppliedTo = nil
}
