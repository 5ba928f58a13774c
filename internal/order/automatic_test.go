package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
)

func newAutomaticResolver() *AutomaticResolver {
	r := NewAutomaticResolver(discount.Calculator{})
	r.now = func() time.Time { return fixedNow }
	return r
}

func autoOrderDiscount(id int64, typ discount.Type, value string) discount.Discount {
	return discount.Discount{
		ID:        id,
		Type:      typ,
		Value:     d(value),
		Scope:     discount.ScopeOrderTotal,
		Automatic: true,
		Active:    true,
	}
}

func TestOrderDiscount_PicksHighestValue(t *testing.T) {
	// Raw-value comparison: a fixed 15 beats a percentage 10 even though
	// the percentage would yield a larger amount on this subtotal.
	c := discount.NewCatalog([]discount.Discount{
		autoOrderDiscount(1, discount.TypePercentage, "10"),
		autoOrderDiscount(2, discount.TypeFixed, "15"),
	})
	r := newAutomaticResolver()
	o := newOrder(newLine(1, 5, 10, "20")) // subtotal 200

	got := r.OrderDiscount(c, o)
	assert.True(t, d("15").Equal(got), "expected 15, got %s", got)
}

func TestOrderDiscount_FirstWinsExactTies(t *testing.T) {
	c := discount.NewCatalog([]discount.Discount{
		autoOrderDiscount(1, discount.TypePercentage, "10"),
		autoOrderDiscount(2, discount.TypeFixed, "10"),
	})
	r := newAutomaticResolver()
	o := newOrder(newLine(1, 5, 10, "20")) // subtotal 200

	// The percentage entry comes first: 10% of 200 = 20, not fixed 10.
	got := r.OrderDiscount(c, o)
	assert.True(t, d("20").Equal(got), "expected 20, got %s", got)
}

func TestOrderDiscount_MinimumGate(t *testing.T) {
	min := d("100")
	gated := autoOrderDiscount(1, discount.TypePercentage, "50")
	gated.MinimumOrderAmount = &min
	c := discount.NewCatalog([]discount.Discount{
		gated,
		autoOrderDiscount(2, discount.TypePercentage, "5"),
	})
	r := newAutomaticResolver()

	o := newOrder(newLine(1, 5, 2, "20")) // subtotal 40, below the gate
	got := r.OrderDiscount(c, o)
	assert.True(t, d("2").Equal(got), "falls back to the ungated 5%%: got %s", got)

	o = newOrder(newLine(1, 5, 10, "20")) // subtotal 200
	got = r.OrderDiscount(c, o)
	assert.True(t, d("100").Equal(got), "gate cleared: got %s", got)
}

func TestOrderDiscount_SkipsInapplicable(t *testing.T) {
	expired := fixedNow.Add(-time.Hour)
	dead := autoOrderDiscount(1, discount.TypePercentage, "90")
	dead.EndsAt = &expired
	inactive := autoOrderDiscount(2, discount.TypePercentage, "80")
	inactive.Active = false

	c := discount.NewCatalog([]discount.Discount{dead, inactive})
	r := newAutomaticResolver()
	o := newOrder(newLine(1, 5, 1, "100"))

	assert.True(t, r.OrderDiscount(c, o).IsZero())
}

func TestOrderDiscount_EditModeFreeze(t *testing.T) {
	c := discount.NewCatalog([]discount.Discount{
		autoOrderDiscount(1, discount.TypePercentage, "10"),
	})
	r := newAutomaticResolver()
	o := newOrder(newLine(1, 5, 1, "100"))
	o.IsEdit = true

	assert.True(t, r.OrderDiscount(c, o).IsZero())
}

func TestItemDiscount(t *testing.T) {
	base := discount.Discount{
		ID: 1, Automatic: true, Active: true,
		Products: []discount.ProductRef{{ProductID: 5, CombinationID: nil}},
	}
	variant := discount.Discount{
		ID: 2, Automatic: true, Active: true,
		Products: []discount.ProductRef{{ProductID: 5, CombinationID: i64(33)}},
	}
	manual := discount.Discount{
		ID: 3, Automatic: false, Active: true,
		Products: []discount.ProductRef{{ProductID: 5, CombinationID: nil}},
	}

	r := newAutomaticResolver()
	productDiscounts := []discount.Discount{manual, base, variant}

	t.Run("base product matches nil pivot", func(t *testing.T) {
		got := r.ItemDiscount(productDiscounts, 5, nil, false)
		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.ID, "manual entries are skipped")
	})

	t.Run("variant matches the combination pivot", func(t *testing.T) {
		got := r.ItemDiscount(productDiscounts, 5, i64(33), false)
		require.NotNil(t, got)
		assert.Equal(t, int64(2), got.ID)
	})

	t.Run("unknown combination matches nothing", func(t *testing.T) {
		assert.Nil(t, r.ItemDiscount(productDiscounts, 5, i64(99), false))
	})

	t.Run("edit mode returns nothing", func(t *testing.T) {
		assert.Nil(t, r.ItemDiscount(productDiscounts, 5, nil, true))
	})
}

func TestItemDiscount_OnlyThisProductsPivotCounts(t *testing.T) {
	// One discount associated with two products under different pivots:
	// product 1 on the base product, product 2 on combination 7. Resolving
	// product 1 must only consult product 1's association.
	shared := discount.Discount{
		ID: 1, Automatic: true, Active: true,
		Products: []discount.ProductRef{
			{ProductID: 1, CombinationID: nil},
			{ProductID: 2, CombinationID: i64(7)},
		},
	}

	r := newAutomaticResolver()
	productDiscounts := []discount.Discount{shared}

	assert.Nil(t, r.ItemDiscount(productDiscounts, 1, i64(7), false),
		"product 2's pivot must not satisfy product 1")

	got := r.ItemDiscount(productDiscounts, 1, nil, false)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	got = r.ItemDiscount(productDiscounts, 2, i64(7), false)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	assert.Nil(t, r.ItemDiscount(productDiscounts, 2, nil, false),
		"product 2 has no base-product pivot")
}
