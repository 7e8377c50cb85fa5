package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"retailpos/internal/domain"
	"retailpos/internal/pos/cart"
)

// State is the payment flow position. Failed returns to MethodSelection,
// never Idle, so the cart survives a failed settlement.
type State string

const (
	StateIdle            State = "idle"
	StateMethodSelection State = "method-selection"
	StateCashTender      State = "cash-tender"
	StateDirectCapture   State = "direct-capture"
	StateSubmitting      State = "submitting"
	StateSuccess         State = "success"
	StateFailed          State = "failed"
)

var (
	// ErrEmptyCart guards checkout entry; an empty cart is a no-op, not a
	// machine error.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition rejects an operation not legal in the current state.
	ErrInvalidTransition = errors.New("invalid checkout transition")
	// ErrInsufficientTender rejects confirming cash below the total due. The
	// UI disables the confirm affordance before this can fire.
	ErrInsufficientTender = errors.New("tendered amount below total")
)

// Submitter is the external settlement endpoint. Submissions are retry-safe
// for the caller; the orchestrator never retries on its own.
type Submitter interface {
	SubmitSale(ctx context.Context, req domain.SaleRequest) (*domain.SaleConfirmation, error)
}

// Orchestrator drives one payment session over the cart ledger. Exactly one
// session is live per cart; it is destroyed on success acknowledgement or
// explicit cancellation.
type Orchestrator struct {
	ledger    *cart.Ledger
	submitter Submitter
	logger    *log.Logger

	state        State
	method       domain.PaymentMethod
	tendered     int64
	idemKey      string
	confirmation *domain.SaleConfirmation
	lastErr      error
}

func New(ledger *cart.Ledger, submitter Submitter, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		ledger:    ledger,
		submitter: submitter,
		logger:    logger,
		state:     StateIdle,
	}
}

// State reports the current flow position.
func (o *Orchestrator) State() State { return o.state }

// Method reports the chosen payment method.
func (o *Orchestrator) Method() domain.PaymentMethod { return o.method }

// Tendered reports the cash amount entered so far.
func (o *Orchestrator) Tendered() int64 { return o.tendered }

// Confirmation is the settlement payload, available from Success until Reset
// so a receipt can still be reprinted.
func (o *Orchestrator) Confirmation() *domain.SaleConfirmation { return o.confirmation }

// LastError is the most recent submission failure, for operator display.
func (o *Orchestrator) LastError() error { return o.lastErr }

// Begin enters method selection. Requires a non-empty cart.
func (o *Orchestrator) Begin() error {
	if o.state != StateIdle {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, o.state)
	}
	if o.ledger.Empty() {
		return ErrEmptyCart
	}
	o.state = StateMethodSelection
	// One idempotency key per payment session: explicit operator retries
	// reuse it, so a settlement can never double-charge.
	o.idemKey = uuid.NewString()
	return nil
}

// ChooseCash enters the cash tender amount-entry state.
func (o *Orchestrator) ChooseCash() error {
	if o.state != StateMethodSelection {
		return fmt.Errorf("%w: choose cash from %s", ErrInvalidTransition, o.state)
	}
	o.method = domain.PaymentCash
	o.state = StateCashTender
	return nil
}

// ChooseDirect selects a non-cash method; the captured amount is implicitly
// the total, so tender entry is skipped.
func (o *Orchestrator) ChooseDirect(method domain.PaymentMethod) error {
	if o.state != StateMethodSelection {
		return fmt.Errorf("%w: choose method from %s", ErrInvalidTransition, o.state)
	}
	if method == domain.PaymentCash {
		return o.ChooseCash()
	}
	o.method = method
	o.state = StateDirectCapture
	return nil
}

// SetTendered records the cash amount entered so far.
func (o *Orchestrator) SetTendered(cents int64) error {
	if o.state != StateCashTender {
		return fmt.Errorf("%w: tender from %s", ErrInvalidTransition, o.state)
	}
	if cents < 0 {
		cents = 0
	}
	o.tendered = cents
	return nil
}

// CanConfirm reports whether the confirming action is available. For cash it
// is gated on tendered covering the total, making underpayment unreachable
// rather than rejected after the fact.
func (o *Orchestrator) CanConfirm() bool {
	switch o.state {
	case StateCashTender:
		return o.tendered >= o.ledger.Total()
	case StateDirectCapture:
		return true
	}
	return false
}

// ChangeDue is the cash to hand back, never negative.
func (o *Orchestrator) ChangeDue() int64 {
	change := o.tendered - o.ledger.Total()
	if change < 0 {
		return 0
	}
	return change
}

// Submit snapshots the cart into a settlement request and sends it. The cart
// is not mutated: a failure lands in Failed with lines, discount, method,
// and tender exactly as they were.
func (o *Orchestrator) Submit(ctx context.Context) (*domain.SaleConfirmation, error) {
	switch o.state {
	case StateCashTender:
		if o.tendered < o.ledger.Total() {
			return nil, ErrInsufficientTender
		}
	case StateDirectCapture:
		o.tendered = o.ledger.Total()
	default:
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, o.state)
	}

	req := o.buildRequest()
	o.state = StateSubmitting
	conf, err := o.submitter.SubmitSale(ctx, req)
	if err != nil {
		o.state = StateFailed
		o.lastErr = err
		o.logger.Printf("checkout: submit failed method=%s total=%d error=%v", req.Method, req.TotalCents, err)
		return nil, fmt.Errorf("submit sale: %w", err)
	}
	o.state = StateSuccess
	o.lastErr = nil
	o.confirmation = conf
	o.logger.Printf("checkout: settled receipt=%s total=%d change=%d", conf.ReceiptRef, req.TotalCents, conf.ChangeCents)
	return conf, nil
}

func (o *Orchestrator) buildRequest() domain.SaleRequest {
	lines := o.ledger.Lines()
	totals := o.ledger.Totals()
	saleLines := make([]domain.SaleLine, 0, len(lines))
	for _, line := range lines {
		saleLines = append(saleLines, domain.SaleLine{
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}
	return domain.SaleRequest{
		Lines:          saleLines,
		CustomerID:     o.ledger.CustomerID(),
		SubtotalCents:  totals.SubtotalCents,
		DiscountCents:  totals.DiscountCents,
		TaxCents:       totals.TaxCents,
		TotalCents:     totals.TotalCents,
		Method:         o.method,
		TenderedCents:  o.tendered,
		IdempotencyKey: o.idemKey,
	}
}

// Reselect acknowledges a failure and returns to method selection with the
// cart, method, and entered tender preserved, so the operator can retry or
// pick another method.
func (o *Orchestrator) Reselect() error {
	if o.state != StateFailed {
		return fmt.Errorf("%w: reselect from %s", ErrInvalidTransition, o.state)
	}
	o.state = StateMethodSelection
	return nil
}

// Cancel abandons the payment session and returns to Idle. The cart is left
// intact; only the session state is destroyed. Not available while a
// submission is in flight or after success.
func (o *Orchestrator) Cancel() error {
	switch o.state {
	case StateMethodSelection, StateCashTender, StateDirectCapture, StateFailed:
		o.clearSession()
		return nil
	}
	return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, o.state)
}

// Reset acknowledges a successful settlement, clears the ledger for the next
// customer, and returns to Idle. Success is the only state it is legal from.
func (o *Orchestrator) Reset() error {
	if o.state != StateSuccess {
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, o.state)
	}
	o.ledger.Reset()
	o.clearSession()
	return nil
}

func (o *Orchestrator) clearSession() {
	o.state = StateIdle
	o.method = ""
	o.tendered = 0
	o.idemKey = ""
	o.confirmation = nil
	o.lastErr = nil
}
