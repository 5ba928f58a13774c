package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
	"github.com/JLucGM/backend-pos-sub004/internal/order"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testCatalog() *discount.Catalog {
	return discount.NewCatalog([]discount.Discount{{
		ID:     7,
		Code:   "SAVE10",
		Type:   discount.TypePercentage,
		Value:  d("10"),
		Scope:  discount.ScopeProduct,
		Active: true,
	}})
}

// consistentOrder returns a snapshot whose stored values all reconcile:
// 2 x 20 with SAVE10 applied, 21% tax.
func consistentOrder() *order.Order {
	id := int64(7)
	return &order.Order{
		ID:                   1,
		Subtotal:             d("36"),
		ManualDiscountCode:   "SAVE10",
		ManualDiscountAmount: d("4"),
		Items: []order.Item{{
			ID:              11,
			ProductID:       5,
			Quantity:        2,
			OriginalPrice:   d("20"),
			DiscountedPrice: d("18"),
			Subtotal:        d("36"),
			TaxRate:         d("21"),
			TaxAmount:       d("7.56"),
			DiscountID:      &id,
			DiscountAmount:  d("4"),
			DiscountType:    discount.TypePercentage,
		}},
	}
}

func checks(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Check
	}
	return out
}

func TestVerify_ConsistentOrder(t *testing.T) {
	v := newVerifier(testCatalog(), nil)
	assert.Empty(t, v.verify(consistentOrder()))
}

func TestVerify_DiscountedPriceMismatch(t *testing.T) {
	o := consistentOrder()
	o.Items[0].DiscountedPrice = d("17")

	v := newVerifier(testCatalog(), nil)
	got := v.verify(o)
	assert.Contains(t, checks(got), "discounted_price")
}

func TestVerify_TaxMismatch(t *testing.T) {
	o := consistentOrder()
	o.Items[0].TaxAmount = d("1")

	v := newVerifier(testCatalog(), nil)
	got := v.verify(o)
	assert.Contains(t, checks(got), "tax_amount")
}

func TestVerify_SubtotalMismatch(t *testing.T) {
	o := consistentOrder()
	o.Subtotal = d("40")

	v := newVerifier(testCatalog(), nil)
	got := v.verify(o)
	assert.Contains(t, checks(got), "order_subtotal")
}

func TestVerify_PercentageOvershoot(t *testing.T) {
	o := consistentOrder()
	// Stored amount exceeds the line: flagged both against the invariant
	// and against the catalog recomputation.
	o.Items[0].DiscountAmount = d("100")
	o.Items[0].DiscountedPrice = decimal.Zero
	o.Items[0].Subtotal = d("-60")
	o.Items[0].TaxAmount = d("-12.60")
	o.Subtotal = d("-60")

	v := newVerifier(testCatalog(), nil)
	got := checks(v.verify(o))
	assert.Contains(t, got, "percentage_overshoot")
	assert.Contains(t, got, "discount_amount")
}

func TestVerify_NegativeDiscountedPrice(t *testing.T) {
	o := consistentOrder()
	o.Items[0].DiscountedPrice = d("-2")

	v := newVerifier(testCatalog(), nil)
	got := v.verify(o)
	assert.Contains(t, checks(got), "negative_discounted_price")
}

func TestVerify_UnknownManualCode(t *testing.T) {
	o := consistentOrder()
	o.ManualDiscountCode = "ROTATED1"

	t.Run("without corpus screen", func(t *testing.T) {
		v := newVerifier(testCatalog(), nil)
		assert.Contains(t, checks(v.verify(o)), "unknown_manual_code")
	})

	t.Run("corpus hit suppresses the finding", func(t *testing.T) {
		v := newVerifier(testCatalog(), func(code string) bool { return code == "ROTATED1" })
		assert.NotContains(t, checks(v.verify(o)), "unknown_manual_code")
	})
}

func TestVerify_DiscountAmountRecomputedFromCatalog(t *testing.T) {
	o := consistentOrder()
	o.Items[0].DiscountAmount = d("3")
	o.Items[0].DiscountedPrice = d("18.50")
	o.Items[0].Subtotal = d("37")
	o.Items[0].TaxAmount = d("7.77")
	o.Subtotal = d("37")

	v := newVerifier(testCatalog(), nil)
	got := v.verify(o)
	require.Len(t, got, 1)
	assert.Equal(t, "discount_amount", got[0].Check)
	assert.Equal(t, "4", got[0].Want)
	assert.Equal(t, "3", got[0].Got)
}
