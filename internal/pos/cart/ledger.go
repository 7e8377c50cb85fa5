package cart

import (
	"errors"
	"sync"

	"retailpos/internal/domain"
)

// DiscountKind selects between proportional and fixed-amount discounts.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// ErrUnknownDiscountKind rejects discount kinds the ledger does not model.
var ErrUnknownDiscountKind = errors.New("unknown discount kind")

// Discount is the at-most-one active discount of a cart. Applying a new one
// supersedes the old; there is no stacking.
type Discount struct {
	Kind  DiscountKind
	Value int64
}

// LineItem is one cart line. UnitPriceCents is snapshotted when the product
// is first added, so catalog price changes never retroactively alter an
// in-progress cart.
type LineItem struct {
	ProductID      string
	Name           string
	UnitPriceCents int64
	Quantity       int
}

// Totals is a consistent snapshot of all derived amounts.
type Totals struct {
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
}

// Ledger is the authoritative in-memory model of the current transaction.
// Derived amounts are recomputed from the lines on every query, never cached
// independently of their inputs, so they cannot drift. The logical model is
// single-writer; the mutex only serializes the Go goroutines feeding it.
type Ledger struct {
	mu         sync.Mutex
	taxRateBps int64
	lines      []LineItem
	discount   *Discount
	customerID string
}

// NewLedger builds an empty ledger taxed at the given basis-point rate
// (1000 = 10%).
func NewLedger(taxRateBps int64) *Ledger {
	return &Ledger{taxRateBps: taxRateBps}
}

// AddItem increments the quantity of an existing line for the product, or
// appends a new line with quantity 1 and the product's current price as the
// snapshot.
func (l *Ledger) AddItem(p domain.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.lines {
		if l.lines[i].ProductID == p.ID {
			l.lines[i].Quantity++
			return
		}
	}
	l.lines = append(l.lines, LineItem{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceCents: p.UnitPriceCents,
		Quantity:       1,
	})
}

// SetQuantity sets a line's quantity directly. Zero or negative removes the
// line; quantity-zero lines are never retained.
func (l *Ledger) SetQuantity(productID string, qty int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if qty <= 0 {
		l.removeLocked(productID)
		return
	}
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines[i].Quantity = qty
			return
		}
	}
}

// RemoveItem drops the product's line if present.
func (l *Ledger) RemoveItem(productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(productID)
}

func (l *Ledger) removeLocked(productID string) {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return
		}
	}
}

// ApplyDiscount replaces any existing discount. Percentage values are
// clamped to [0,100]; fixed values are clamped to be non-negative here and
// to the subtotal at computation time, so the total can never go negative.
func (l *Ledger) ApplyDiscount(kind DiscountKind, value int64) error {
	switch kind {
	case DiscountPercentage:
		if value < 0 {
			value = 0
		}
		if value > 100 {
			value = 100
		}
	case DiscountFixed:
		if value < 0 {
			value = 0
		}
	default:
		return ErrUnknownDiscountKind
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.discount = &Discount{Kind: kind, Value: value}
	return nil
}

// ClearDiscount removes the active discount.
func (l *Ledger) ClearDiscount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.discount = nil
}

// SetCustomer attaches a customer reference; empty clears it.
func (l *Ledger) SetCustomer(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.customerID = id
}

// CustomerID returns the attached customer reference, if any.
func (l *Ledger) CustomerID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.customerID
}

// Reset clears lines, discount, and customer between transactions.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
	l.discount = nil
	l.customerID = ""
}

// Empty reports whether the cart holds no lines.
func (l *Ledger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines) == 0
}

// Lines returns a copy of the current line items.
func (l *Ledger) Lines() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LineItem, len(l.lines))
	copy(out, l.lines)
	return out
}

// Discount returns a copy of the active discount, or nil.
func (l *Ledger) Discount() *Discount {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.discount == nil {
		return nil
	}
	d := *l.discount
	return &d
}

// Totals computes all derived amounts in one consistent snapshot:
// subtotal, discount, tax on the discounted base, and total.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalsLocked()
}

func (l *Ledger) totalsLocked() Totals {
	var subtotal int64
	for _, line := range l.lines {
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}
	var discount int64
	if l.discount != nil {
		switch l.discount.Kind {
		case DiscountPercentage:
			discount = subtotal * l.discount.Value / 100
		case DiscountFixed:
			discount = l.discount.Value
			if discount > subtotal {
				discount = subtotal
			}
		}
	}
	taxable := subtotal - discount
	tax := taxable * l.taxRateBps / 10000
	return Totals{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TaxCents:      tax,
		TotalCents:    taxable + tax,
	}
}

// Subtotal is the pre-discount sum of the lines.
func (l *Ledger) Subtotal() int64 { return l.Totals().SubtotalCents }

// DiscountAmount is the amount deducted by the active discount.
func (l *Ledger) DiscountAmount() int64 { return l.Totals().DiscountCents }

// Tax is computed on the discounted base.
func (l *Ledger) Tax() int64 { return l.Totals().TaxCents }

// Total is the amount due.
func (l *Ledger) Total() int64 { return l.Totals().TotalCents }
