package domain

import "time"

// Product is a sellable catalog entry. The POS treats it as read-only: the
// catalog service owns mutation, and a terminal loads the list once per
// session.
type Product struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"-"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	AlternateCodes []string  `json:"alternateCodes,omitempty"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Currency       string    `json:"currency"`
	Category       string    `json:"category,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
