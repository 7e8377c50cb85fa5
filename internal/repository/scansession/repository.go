package scansession

import (
	"context"
	"time"

	"retailpos/internal/domain"
)

type Repository interface {
	// Create registers a session. Permanent sessions pass a nil expiry.
	Create(ctx context.Context, tenantID string, kind domain.ScanSessionKind, expiresAt *time.Time) (*domain.RemoteScanSession, error)
	GetByCode(ctx context.Context, tenantID, code string) (*domain.RemoteScanSession, error)
	// PushItem appends a scanned code to the session queue and returns the
	// server-assigned entry, the terminal's idempotency key.
	PushItem(ctx context.Context, tenantID, code, itemCode string) (*domain.QueueEntry, error)
	ListQueue(ctx context.Context, tenantID, code string) ([]domain.QueueEntry, error)
	ClearQueue(ctx context.Context, tenantID, code string) error
}
