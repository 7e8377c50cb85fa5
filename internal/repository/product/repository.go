package product

import (
	"context"

	"retailpos/internal/domain"
)

type Repository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Product, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
