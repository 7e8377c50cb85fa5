package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name           string
	Code           string
	AlternateCodes []string
	UnitPriceCents int64
	Currency       string
	Category       string
}

type customerSeed struct {
	Name  string
	Email string
	Phone string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	tenantID, err := ensureTenant(ctx, pool, "demo", "Demo Store")
	if err != nil {
		return fmt.Errorf("ensure tenant: %w", err)
	}

	products := []productSeed{
		{
			Name:           "Product A",
			Code:           "PROD-A",
			AlternateCodes: []string{"4006381333931"},
			UnitPriceCents: 1000,
			Currency:       "USD",
			Category:       "general",
		},
		{
			Name:           "Product B",
			Code:           "PROD-B",
			AlternateCodes: []string{"9780201379624", "SKU-B"},
			UnitPriceCents: 2500,
			Currency:       "USD",
			Category:       "general",
		},
		{
			Name:           "Bottled Water",
			Code:           "WATER-05",
			AlternateCodes: []string{"5449000054227"},
			UnitPriceCents: 149,
			Currency:       "USD",
			Category:       "drinks",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, tenantID, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Code, err)
		}
	}

	customers := []customerSeed{
		{Name: "Walk-in Regular", Email: "regular@example.com", Phone: "+1-555-0101"},
		{Name: "Acme Facilities", Email: "purchasing@acme.example.com"},
	}
	for _, c := range customers {
		if err := upsertCustomer(ctx, pool, tenantID, c); err != nil {
			return fmt.Errorf("upsert customer %s: %w", c.Email, err)
		}
	}

	return nil
}

func ensureTenant(ctx context.Context, pool *pgxpool.Pool, key, name string) (string, error) {
	const q = `
INSERT INTO tenants (key, name)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, key, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, tenantID string, p productSeed) error {
	const q = `
INSERT INTO products (tenant_id, name, code, alternate_codes, unit_price_cents, currency, category)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (tenant_id, code) DO UPDATE
SET name = EXCLUDED.name,
    alternate_codes = EXCLUDED.alternate_codes,
    unit_price_cents = EXCLUDED.unit_price_cents,
    currency = EXCLUDED.currency,
    category = EXCLUDED.category
`
	_, err := pool.Exec(ctx, q, tenantID, p.Name, p.Code, p.AlternateCodes, p.UnitPriceCents, p.Currency, p.Category)
	return err
}

func upsertCustomer(ctx context.Context, pool *pgxpool.Pool, tenantID string, c customerSeed) error {
	const q = `
INSERT INTO customers (tenant_id, name, email, phone)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
ON CONFLICT (tenant_id, email) DO UPDATE
SET name = EXCLUDED.name,
    phone = EXCLUDED.phone
`
	_, err := pool.Exec(ctx, q, tenantID, c.Name, c.Email, c.Phone)
	return err
}
