package sale

import (
	"context"

	"retailpos/internal/domain"
)

// CreateSaleInput is a settled transaction ready to persist.
type CreateSaleInput struct {
	TenantID   string
	ReceiptRef string
	Req        domain.SaleRequest
}

type Repository interface {
	Create(ctx context.Context, in CreateSaleInput) (*domain.SaleConfirmation, error)
	GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.SaleConfirmation, error)
}
