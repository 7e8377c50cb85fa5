package tenant

import (
	"context"
	"errors"

	"retailpos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByKey(ctx context.Context, key string) (*domain.Tenant, error) {
	const q = `
SELECT id::text, key, name, created_at
FROM tenants
WHERE key = $1
`
	var t domain.Tenant
	err := r.pool.QueryRow(ctx, q, key).Scan(&t.ID, &t.Key, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	const q = `
INSERT INTO tenants (key, name)
VALUES ($1, $2)
RETURNING id::text, created_at
`
	var out domain.Tenant
	err := r.pool.QueryRow(ctx, q, tenant.Key, tenant.Name).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	out.Key = tenant.Key
	out.Name = tenant.Name
	return &out, nil
}
