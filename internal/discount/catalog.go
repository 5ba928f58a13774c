package discount

import "time"

// Catalog is a read-only index over a discount snapshot. It is built once
// per snapshot and never mutated afterwards.
type Catalog struct {
	discounts []Discount
}

// NewCatalog builds a Catalog over the given discounts. The slice order is
// preserved: every lookup that can match more than one rule resolves ties by
// catalog order.
func NewCatalog(discounts []Discount) *Catalog {
	return &Catalog{discounts: discounts}
}

// All returns the indexed discounts in catalog order.
func (c *Catalog) All() []Discount {
	return c.discounts
}

// ByCode returns the first discount whose code matches exactly
// (case-sensitive), or nil when no such discount exists.
func (c *Catalog) ByCode(code string) *Discount {
	for i := range c.discounts {
		if c.discounts[i].Code == code {
			return &c.discounts[i]
		}
	}
	return nil
}

// ManualByCode returns the first non-automatic discount with an exact code
// match that is applicable at now, or nil.
func (c *Catalog) ManualByCode(code string, now time.Time) *Discount {
	for i := range c.discounts {
		d := &c.discounts[i]
		if !d.Automatic && d.Code == code && IsApplicable(*d, now) {
			return d
		}
	}
	return nil
}

// AutomaticOrderLevel returns the automatic order-total discounts in catalog
// order. Eligibility is the caller's concern.
func (c *Catalog) AutomaticOrderLevel() []Discount {
	var out []Discount
	for _, d := range c.discounts {
		if d.Automatic && d.Scope == ScopeOrderTotal {
			out = append(out, d)
		}
	}
	return out
}

// AutomaticForProduct filters a product's own associated discounts down to
// the automatic ones. The product entity is supplied by the caller; the
// engine does not own the product catalog.
func AutomaticForProduct(productDiscounts []Discount) []Discount {
	var out []Discount
	for _, d := range productDiscounts {
		if d.Automatic {
			out = append(out, d)
		}
	}
	return out
}
