package sale

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

// Create persists the sale header and its lines in one transaction. The
// change due is computed server-side from the submitted tender and total.
func (r *postgresRepo) Create(ctx context.Context, in CreateSaleInput) (*domain.SaleConfirmation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	change := in.Req.TenderedCents - in.Req.TotalCents
	if change < 0 {
		change = 0
	}

	const saleQ = `
INSERT INTO sales (tenant_id, customer_id, subtotal_cents, discount_cents, tax_cents, total_cents, method, tendered_cents, change_cents, receipt_ref, idempotency_key)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''))
RETURNING id::text, created_at
`
	var saleID string
	conf := domain.SaleConfirmation{
		ReceiptRef:    in.ReceiptRef,
		TenderedCents: in.Req.TenderedCents,
		ChangeCents:   change,
	}
	err = tx.QueryRow(ctx, saleQ,
		in.TenantID,
		in.Req.CustomerID,
		in.Req.SubtotalCents,
		in.Req.DiscountCents,
		in.Req.TaxCents,
		in.Req.TotalCents,
		string(in.Req.Method),
		in.Req.TenderedCents,
		change,
		in.ReceiptRef,
		in.Req.IdempotencyKey,
	).Scan(&saleID, &conf.CreatedAt)
	if err != nil {
		r.logger.Printf("sale repo: insert tenant_id=%s error=%v", in.TenantID, err)
		return nil, err
	}

	const lineQ = `
INSERT INTO sale_lines (sale_id, product_id, name, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)
`
	for _, line := range in.Req.Lines {
		if _, err := tx.Exec(ctx, lineQ, saleID, line.ProductID, line.Name, line.UnitPriceCents, line.Quantity); err != nil {
			r.logger.Printf("sale repo: insert line sale_id=%s product_id=%s error=%v", saleID, line.ProductID, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("sale repo: created sale_id=%s receipt=%s total=%d", saleID, in.ReceiptRef, in.Req.TotalCents)
	return &conf, nil
}

// GetByIdempotencyKey returns the confirmation of a previously settled sale,
// letting the settlement endpoint answer retries without double-charging.
func (r *postgresRepo) GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.SaleConfirmation, error) {
	const q = `
SELECT receipt_ref, tendered_cents, change_cents, created_at
FROM sales
WHERE tenant_id = $1 AND idempotency_key = $2
`
	var conf domain.SaleConfirmation
	err := r.pool.QueryRow(ctx, q, tenantID, key).Scan(&conf.ReceiptRef, &conf.TenderedCents, &conf.ChangeCents, &conf.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &conf, nil
}
