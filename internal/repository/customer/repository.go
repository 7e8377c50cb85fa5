package customer

import (
	"context"

	"retailpos/internal/domain"
)

// Repository persists and fetches customers.
type Repository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Customer, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
}
