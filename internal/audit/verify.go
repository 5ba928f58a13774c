package audit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
	"github.com/JLucGM/backend-pos-sub004/internal/order"
)

// Finding is a single inconsistency detected in a stored order snapshot.
type Finding struct {
	OrderID int64
	ItemID  int64 // zero for order-level findings
	Check   string
	Want    string
	Got     string
}

// verifier re-derives the pricing invariants of stored orders and reports
// every deviation. knownCode answers whether a manual code exists in the
// promo-code corpus; nil disables the corpus screen.
type verifier struct {
	calc      discount.Calculator
	byID      map[int64]*discount.Discount
	catalog   *discount.Catalog
	knownCode func(string) bool
}

func newVerifier(catalog *discount.Catalog, knownCode func(string) bool) *verifier {
	byID := make(map[int64]*discount.Discount)
	all := catalog.All()
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	return &verifier{
		byID:      byID,
		catalog:   catalog,
		knownCode: knownCode,
	}
}

// verify checks one order snapshot and returns its findings.
func (v *verifier) verify(o *order.Order) []Finding {
	var out []Finding

	sum := decimal.Zero
	for _, it := range o.Items {
		out = append(out, v.verifyItem(o.ID, it)...)
		sum = sum.Add(it.Subtotal)
	}

	if !o.Subtotal.Equal(sum.Round(2)) {
		out = append(out, Finding{
			OrderID: o.ID,
			Check:   "order_subtotal",
			Want:    sum.Round(2).String(),
			Got:     o.Subtotal.String(),
		})
	}

	if code := o.ManualDiscountCode; code != "" && v.catalog.ByCode(code) == nil {
		if v.knownCode == nil || !v.knownCode(code) {
			out = append(out, Finding{
				OrderID: o.ID,
				Check:   "unknown_manual_code",
				Got:     code,
			})
		}
	}

	return out
}

func (v *verifier) verifyItem(orderID int64, it order.Item) []Finding {
	var out []Finding
	add := func(check string, want, got decimal.Decimal) {
		out = append(out, Finding{
			OrderID: orderID,
			ItemID:  it.ID,
			Check:   check,
			Want:    want.String(),
			Got:     got.String(),
		})
	}

	if it.Quantity < 0 {
		out = append(out, Finding{
			OrderID: orderID,
			ItemID:  it.ID,
			Check:   "negative_quantity",
			Got:     fmt.Sprintf("%d", it.Quantity),
		})
		return out
	}

	if it.DiscountedPrice.IsNegative() {
		add("negative_discounted_price", decimal.Zero, it.DiscountedPrice)
	}

	// discounted_price = max(0, original_price - discount_amount/quantity)
	wantPrice := it.OriginalPrice
	if it.Quantity > 0 {
		perUnit := it.DiscountAmount.Div(decimal.NewFromInt(int64(it.Quantity)))
		wantPrice = it.OriginalPrice.Sub(perUnit)
	}
	if wantPrice.IsNegative() {
		wantPrice = decimal.Zero
	}
	if !it.DiscountedPrice.Equal(wantPrice.Round(2)) {
		add("discounted_price", wantPrice.Round(2), it.DiscountedPrice)
	}

	wantTax := it.Subtotal.Mul(it.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	if !it.TaxAmount.Equal(wantTax) {
		add("tax_amount", wantTax, it.TaxAmount)
	}

	// A percentage discount can never exceed the line it discounts.
	if it.DiscountType == discount.TypePercentage && it.DiscountAmount.GreaterThan(it.LineTotal()) {
		add("percentage_overshoot", it.LineTotal(), it.DiscountAmount)
	}

	// When the applied rule is still in the catalog, the stored amount must
	// match a recomputation from the original price.
	if it.DiscountID != nil {
		if d, ok := v.byID[*it.DiscountID]; ok {
			want := v.calc.Amount(d, it.OriginalPrice, it.Quantity)
			if !it.DiscountAmount.Equal(want) {
				add("discount_amount", want, it.DiscountAmount)
			}
		}
	}

	return out
}
