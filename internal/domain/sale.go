package domain

import "time"

// PaymentMethod identifies how a sale was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// SaleLine is a snapshotted cart line carried into a settlement request.
// Unit price is the value captured when the item was added, so a catalog
// price change mid-transaction never alters a submitted sale.
type SaleLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// SaleRequest is the settlement payload submitted at checkout. All derived
// amounts are included so the backend can cross-check the arithmetic.
type SaleRequest struct {
	Lines          []SaleLine    `json:"lines"`
	CustomerID     string        `json:"customerId,omitempty"`
	SubtotalCents  int64         `json:"subtotalCents"`
	DiscountCents  int64         `json:"discountCents"`
	TaxCents       int64         `json:"taxCents"`
	TotalCents     int64         `json:"totalCents"`
	Method         PaymentMethod `json:"method"`
	TenderedCents  int64         `json:"tenderedCents"`
	IdempotencyKey string        `json:"idempotencyKey,omitempty"`
}

// SaleConfirmation is returned by the settlement endpoint and handed to the
// receipt renderer.
type SaleConfirmation struct {
	ReceiptRef    string    `json:"receiptRef"`
	TenderedCents int64     `json:"tenderedCents"`
	ChangeCents   int64     `json:"changeCents"`
	CreatedAt     time.Time `json:"createdAt"`
}
