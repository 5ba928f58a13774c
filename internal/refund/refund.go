// Package refund validates and shapes refund/restock requests against an
// existing order. The engine never moves inventory and never persists a
// request; collaborators submit the built payload.
package refund

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JLucGM/backend-pos-sub004/internal/order"
)

// RestockAction is the disposition of a refunded unit.
type RestockAction string

const (
	// RestockReturn returns the units to sellable inventory.
	RestockReturn RestockAction = "return_to_stock"
	// RestockDiscard discards the units.
	RestockDiscard RestockAction = "discard"
	// RestockNone takes no inventory action.
	RestockNone RestockAction = "none"
)

// ReasonOther is the sentinel preset that requires free-text detail.
const ReasonOther = "otro"

// ReasonPresets is the fixed list of refund reasons offered to the user.
var ReasonPresets = []string{
	"producto defectuoso",
	"producto incorrecto",
	"no era lo esperado",
	ReasonOther,
}

var (
	// ErrInvalidQuantity marks a refund quantity outside [0, MaxQuantity].
	// The builder self-corrects by keeping the previous valid value; the
	// sentinel only lets callers observe that a correction happened.
	ErrInvalidQuantity = errors.New("refund quantity out of range")
	// ErrUnknownItem means the order has no line with the given id.
	ErrUnknownItem = errors.New("unknown order item")
	// ErrReasonRequired means the sentinel preset was chosen without detail.
	ErrReasonRequired = errors.New("refund reason required")
	// ErrInvalidReason means the chosen reason is not one of the presets.
	ErrInvalidReason = errors.New("unknown refund reason")
)

// Item is one refundable line of the request.
type Item struct {
	OrderItemID   int64         `json:"order_item_id"`
	Quantity      int           `json:"quantity"`
	MaxQuantity   int           `json:"max_quantity"`
	RestockAction RestockAction `json:"restock_action"`
}

// Request is the validated refund payload handed to collaborators.
type Request struct {
	ID          string          `json:"id"`
	OrderID     int64           `json:"order_id"`
	Items       []Item          `json:"items"`
	RefundMoney bool            `json:"refund_money"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	StoreID     *int64          `json:"store_id,omitempty"`
}

// Builder accumulates user input for a refund over a single order snapshot.
type Builder struct {
	orderID    int64
	storeID    *int64
	orderTotal decimal.Decimal

	items       []Item
	refundMoney bool
	amount      decimal.Decimal
	preset      string
	freeText    string
}

// NewBuilder seeds a Builder from the order: one candidate per line with
// MaxQuantity capped at the line quantity, zero refund quantity, and no
// restock action. Money refund starts disabled with a zero amount.
func NewBuilder(o *order.Order) *Builder {
	items := make([]Item, len(o.Items))
	for i, it := range o.Items {
		items[i] = Item{
			OrderItemID:   it.ID,
			Quantity:      0,
			MaxQuantity:   it.Quantity,
			RestockAction: RestockNone,
		}
	}
	return &Builder{
		orderID:    o.ID,
		storeID:    o.StoreID,
		orderTotal: o.Total,
		items:      items,
		amount:     decimal.Zero,
	}
}

// SetItemQuantity sets the refund quantity for a line. An out-of-range value
// keeps the previous valid quantity and reports ErrInvalidQuantity; this is
// self-healing, not a hard failure.
func (b *Builder) SetItemQuantity(orderItemID int64, quantity int) error {
	it := b.item(orderItemID)
	if it == nil {
		return ErrUnknownItem
	}
	if quantity < 0 || quantity > it.MaxQuantity {
		return ErrInvalidQuantity
	}
	it.Quantity = quantity
	return nil
}

// SetItemRestock sets the restock action for a line.
func (b *Builder) SetItemRestock(orderItemID int64, action RestockAction) error {
	it := b.item(orderItemID)
	if it == nil {
		return ErrUnknownItem
	}
	it.RestockAction = action
	return nil
}

// SetRefundMoney toggles the monetary refund. Turning it off forces the
// amount to zero; turning it on defaults the amount to the order total,
// which the user may edit downward. Bounds validation against what was
// actually paid is a collaborator concern at submission time.
func (b *Builder) SetRefundMoney(on bool) {
	b.refundMoney = on
	if on {
		b.amount = b.orderTotal
	} else {
		b.amount = decimal.Zero
	}
}

// SetAmount sets the refund amount. It is ignored while the monetary refund
// is disabled; negative values clamp to zero.
func (b *Builder) SetAmount(amount decimal.Decimal) {
	if !b.refundMoney {
		return
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	b.amount = amount
}

// SetReason records the chosen preset and, for the sentinel preset, the
// user's free-text detail.
func (b *Builder) SetReason(preset, freeText string) {
	b.preset = preset
	b.freeText = freeText
}

// Build validates the accumulated input and produces the request payload.
// StoreID is surfaced from the order only when at least one line returns
// units to stock, to inform the restock destination.
func (b *Builder) Build() (*Request, error) {
	if !validPreset(b.preset) {
		return nil, ErrInvalidReason
	}
	reason := b.preset
	if b.preset == ReasonOther {
		if b.freeText == "" {
			return nil, ErrReasonRequired
		}
		reason = b.freeText
	}

	req := &Request{
		ID:          uuid.New().String(),
		OrderID:     b.orderID,
		Items:       append([]Item(nil), b.items...),
		RefundMoney: b.refundMoney,
		Amount:      b.amount,
		Reason:      reason,
	}
	if !b.refundMoney {
		req.Amount = decimal.Zero
	}

	for _, it := range b.items {
		if it.RestockAction == RestockReturn {
			req.StoreID = b.storeID
			break
		}
	}

	return req, nil
}

// validPreset reports whether preset is one of the fixed reason presets.
func validPreset(preset string) bool {
	for _, p := range ReasonPresets {
		if p == preset {
			return true
		}
	}
	return false
}

func (b *Builder) item(orderItemID int64) *Item {
	for i := range b.items {
		if b.items[i].OrderItemID == orderItemID {
			return &b.items[i]
		}
	}
	return nil
}
