package cart

import (
	"math/rand"
	"testing"

	"retailpos/internal/domain"
)

func product(id string, cents int64) domain.Product {
	return domain.Product{ID: id, Name: id, UnitPriceCents: cents}
}

func TestLedger_AddItemIncrementsExistingLine(t *testing.T) {
	l := NewLedger(0)
	l.AddItem(product("p1", 1000))
	l.AddItem(product("p1", 1000))
	lines := l.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
}

func TestLedger_PriceSnapshotIsolation(t *testing.T) {
	l := NewLedger(0)
	p := product("p1", 10000)
	l.AddItem(p)
	// Catalog price changes mid-transaction.
	p.UnitPriceCents = 15000
	l.AddItem(p)
	lines := l.Lines()
	if lines[0].UnitPriceCents != 10000 {
		t.Fatalf("snapshot price drifted to %d", lines[0].UnitPriceCents)
	}
	if got := l.Subtotal(); got != 20000 {
		t.Fatalf("expected subtotal 20000, got %d", got)
	}
}

func TestLedger_SetQuantityZeroRemovesLine(t *testing.T) {
	l := NewLedger(0)
	l.AddItem(product("p1", 500))
	l.SetQuantity("p1", 0)
	if !l.Empty() {
		t.Fatal("expected line removed at quantity zero")
	}
	l.AddItem(product("p2", 500))
	l.SetQuantity("p2", -3)
	if !l.Empty() {
		t.Fatal("expected line removed at negative quantity")
	}
}

func TestLedger_SetQuantityIsDirect(t *testing.T) {
	l := NewLedger(0)
	l.AddItem(product("p1", 500))
	l.SetQuantity("p1", 7)
	if lines := l.Lines(); lines[0].Quantity != 7 {
		t.Fatalf("expected direct set to 7, got %d", lines[0].Quantity)
	}
}

func TestLedger_PercentageDiscountClamped(t *testing.T) {
	l := NewLedger(0)
	l.AddItem(product("p1", 10000))
	if err := l.ApplyDiscount(DiscountPercentage, 150); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := l.DiscountAmount(); got != 10000 {
		t.Fatalf("expected 150%% clamped to full subtotal, got %d", got)
	}
	if got := l.Total(); got != 0 {
		t.Fatalf("expected total 0, got %d", got)
	}
}

func TestLedger_FixedDiscountClampedToSubtotal(t *testing.T) {
	l := NewLedger(0)
	l.AddItem(product("p1", 30000))
	if err := l.ApplyDiscount(DiscountFixed, 50000); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := l.DiscountAmount(); got != 30000 {
		t.Fatalf("expected discount clamped to 30000, got %d", got)
	}
	if got := l.Total(); got < 0 {
		t.Fatalf("total went negative: %d", got)
	}
}

func TestLedger_DiscountReplacedNotStacked(t *testing.T) {
	l := NewLedger(0)
	l.AddItem(product("p1", 10000))
	if err := l.ApplyDiscount(DiscountFixed, 1000); err != nil {
		t.Fatalf("apply fixed: %v", err)
	}
	if err := l.ApplyDiscount(DiscountPercentage, 10); err != nil {
		t.Fatalf("apply percentage: %v", err)
	}
	if got := l.DiscountAmount(); got != 1000 {
		t.Fatalf("expected only the latest discount (10%% of 10000), got %d", got)
	}
	d := l.Discount()
	if d == nil || d.Kind != DiscountPercentage {
		t.Fatalf("expected percentage discount active, got %+v", d)
	}
}

func TestLedger_UnknownDiscountKindRejected(t *testing.T) {
	l := NewLedger(0)
	if err := l.ApplyDiscount(DiscountKind("bogo"), 1); err != ErrUnknownDiscountKind {
		t.Fatalf("expected ErrUnknownDiscountKind, got %v", err)
	}
}

func TestLedger_ReceiptExample(t *testing.T) {
	// 2 x 10.00 + 1 x 25.00, 10% discount, 10% tax.
	l := NewLedger(1000)
	a := product("a", 1000)
	l.AddItem(a)
	l.AddItem(a)
	l.AddItem(product("b", 2500))
	if err := l.ApplyDiscount(DiscountPercentage, 10); err != nil {
		t.Fatalf("apply: %v", err)
	}
	totals := l.Totals()
	if totals.SubtotalCents != 4500 {
		t.Fatalf("subtotal: expected 4500, got %d", totals.SubtotalCents)
	}
	if totals.DiscountCents != 450 {
		t.Fatalf("discount: expected 450, got %d", totals.DiscountCents)
	}
	if totals.TaxCents != 405 {
		t.Fatalf("tax: expected 405, got %d", totals.TaxCents)
	}
	if totals.TotalCents != 4455 {
		t.Fatalf("total: expected 4455, got %d", totals.TotalCents)
	}
}

func TestLedger_ResetClearsEverything(t *testing.T) {
	l := NewLedger(1000)
	l.AddItem(product("p1", 100))
	if err := l.ApplyDiscount(DiscountFixed, 50); err != nil {
		t.Fatalf("apply: %v", err)
	}
	l.SetCustomer("c1")
	l.Reset()
	if !l.Empty() || l.Discount() != nil || l.CustomerID() != "" {
		t.Fatal("reset left state behind")
	}
}

// TestLedger_MonetaryInvariant drives random command sequences and checks
// total == subtotal - discount + tax after every step.
func TestLedger_MonetaryInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	products := []domain.Product{
		product("p1", 199), product("p2", 2500), product("p3", 999), product("p4", 1),
	}
	l := NewLedger(825)
	for step := 0; step < 2000; step++ {
		switch rng.Intn(6) {
		case 0, 1:
			l.AddItem(products[rng.Intn(len(products))])
		case 2:
			l.SetQuantity(products[rng.Intn(len(products))].ID, rng.Intn(8)-1)
		case 3:
			l.RemoveItem(products[rng.Intn(len(products))].ID)
		case 4:
			if err := l.ApplyDiscount(DiscountPercentage, rng.Int63n(200)-20); err != nil {
				t.Fatalf("step %d: %v", step, err)
			}
		case 5:
			if err := l.ApplyDiscount(DiscountFixed, rng.Int63n(10000)); err != nil {
				t.Fatalf("step %d: %v", step, err)
			}
		}
		totals := l.Totals()
		if totals.TotalCents != totals.SubtotalCents-totals.DiscountCents+totals.TaxCents {
			t.Fatalf("step %d: invariant broken: %+v", step, totals)
		}
		if totals.DiscountCents > totals.SubtotalCents {
			t.Fatalf("step %d: discount exceeds subtotal: %+v", step, totals)
		}
		if totals.TotalCents < 0 {
			t.Fatalf("step %d: negative total: %+v", step, totals)
		}
		for _, line := range l.Lines() {
			if line.Quantity <= 0 {
				t.Fatalf("step %d: zero-quantity line retained: %+v", step, line)
			}
		}
	}
}
