package customer

import (
	"context"
	"errors"
	"io"
	"log"

	"retailpos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	const q = `
SELECT id::text, tenant_id::text, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM customers
WHERE tenant_id = $1
ORDER BY name, id
`
	rows, err := r.pool.Query(ctx, q, tenantID)
	if err != nil {
		r.logger.Printf("customer repo: list tenant_id=%s error=%v", tenantID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("customer repo: list rows tenant_id=%s error=%v", tenantID, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	const q = `
SELECT id::text, tenant_id::text, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM customers
WHERE tenant_id = $1 AND id = $2
`
	var c domain.Customer
	err := r.pool.QueryRow(ctx, q, tenantID, id).Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("customer repo: get tenant_id=%s id=%s error=%v", tenantID, id, err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (tenant_id, name, email, phone)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
ON CONFLICT (tenant_id, email) DO UPDATE SET
    name = EXCLUDED.name,
    phone = EXCLUDED.phone
RETURNING id::text, created_at
`
	out := c
	err := r.pool.QueryRow(ctx, q, c.TenantID, c.Name, c.Email, c.Phone).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("customer repo: upsert tenant_id=%s email=%s error=%v", c.TenantID, c.Email, err)
		return nil, err
	}
	return &out, nil
}
