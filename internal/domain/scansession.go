package domain

import "time"

// ScanSessionKind distinguishes reusable tenant sessions from single-use
// temporary ones.
type ScanSessionKind string

const (
	ScanSessionPermanent ScanSessionKind = "permanent"
	ScanSessionTemporary ScanSessionKind = "temporary"
)

// RemoteScanSession links a mobile device acting as a detached barcode
// scanner to a terminal. Permanent sessions carry no expiry; temporary ones
// expire after a short window.
type RemoteScanSession struct {
	Code      string          `json:"code"`
	TenantID  string          `json:"-"`
	Kind      ScanSessionKind `json:"kind"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// QueueEntry is one scan pushed by a remote device, waiting to be drained by
// the terminal. The server-assigned ID is the idempotency key: redelivered
// entries with a seen ID must be applied as no-ops.
type QueueEntry struct {
	ID       string    `json:"id"`
	Code     string    `json:"code"`
	PushedAt time.Time `json:"pushedAt"`
}
