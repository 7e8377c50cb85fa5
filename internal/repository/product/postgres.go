package product

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

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Product, error) {
	const q = `
SELECT id::text, tenant_id::text, name, code, alternate_codes, unit_price_cents, currency, COALESCE(category, ''), created_at
FROM products
WHERE tenant_id = $1
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q, tenantID)
	if err != nil {
		r.logger.Printf("product repo: list tenant_id=%s error=%v", tenantID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Code, &p.AlternateCodes, &p.UnitPriceCents, &p.Currency, &p.Category, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows tenant_id=%s error=%v", tenantID, err)
		return nil, err
	}
	r.logger.Printf("product repo: list tenant_id=%s count=%d", tenantID, len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, tenant_id::text, name, code, alternate_codes, unit_price_cents, currency, COALESCE(category, ''), created_at
FROM products
WHERE tenant_id = $1 AND id = $2
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, tenantID, id).Scan(&p.ID, &p.TenantID, &p.Name, &p.Code, &p.AlternateCodes, &p.UnitPriceCents, &p.Currency, &p.Category, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get tenant_id=%s id=%s error=%v", tenantID, id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (tenant_id, name, code, alternate_codes, unit_price_cents, currency, category)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
ON CONFLICT (tenant_id, code) DO UPDATE SET
    name = EXCLUDED.name,
    alternate_codes = EXCLUDED.alternate_codes,
    unit_price_cents = EXCLUDED.unit_price_cents,
    currency = EXCLUDED.currency,
    category = EXCLUDED.category
RETURNING id::text, created_at
`
	res := product
	alts := product.AlternateCodes
	if alts == nil {
		alts = []string{}
	}
	err := r.pool.QueryRow(ctx, q,
		product.TenantID,
		product.Name,
		product.Code,
		alts,
		product.UnitPriceCents,
		product.Currency,
		product.Category,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert code=%s tenant_id=%s error=%v", product.Code, product.TenantID, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted code=%s tenant_id=%s id=%s", res.Code, res.TenantID, res.ID)
	return &res, nil
}
