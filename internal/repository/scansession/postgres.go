package scansession

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"retailpos/internal/domain"
	"github.com/google/uuid"
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

func (r *postgresRepo) Create(ctx context.Context, tenantID string, kind domain.ScanSessionKind, expiresAt *time.Time) (*domain.RemoteScanSession, error) {
	const q = `
INSERT INTO scan_sessions (code, tenant_id, kind, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING created_at
`
	session := domain.RemoteScanSession{
		Code:      uuid.NewString(),
		TenantID:  tenantID,
		Kind:      kind,
		ExpiresAt: expiresAt,
	}
	if err := r.pool.QueryRow(ctx, q, session.Code, tenantID, string(kind), expiresAt).Scan(&session.CreatedAt); err != nil {
		r.logger.Printf("scansession repo: create tenant_id=%s kind=%s error=%v", tenantID, kind, err)
		return nil, err
	}
	r.logger.Printf("scansession repo: created code=%s kind=%s", session.Code, kind)
	return &session, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, tenantID, code string) (*domain.RemoteScanSession, error) {
	const q = `
SELECT code, tenant_id::text, kind, expires_at, created_at
FROM scan_sessions
WHERE tenant_id = $1 AND code = $2
`
	var s domain.RemoteScanSession
	var kind string
	err := r.pool.QueryRow(ctx, q, tenantID, code).Scan(&s.Code, &s.TenantID, &kind, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.Kind = domain.ScanSessionKind(kind)
	if s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}
	return &s, nil
}

func (r *postgresRepo) PushItem(ctx context.Context, tenantID, code, itemCode string) (*domain.QueueEntry, error) {
	if _, err := r.GetByCode(ctx, tenantID, code); err != nil {
		return nil, err
	}
	const q = `
INSERT INTO scan_queue_entries (id, session_code, item_code)
VALUES ($1, $2, $3)
RETURNING pushed_at
`
	entry := domain.QueueEntry{ID: uuid.NewString(), Code: itemCode}
	if err := r.pool.QueryRow(ctx, q, entry.ID, code, itemCode).Scan(&entry.PushedAt); err != nil {
		r.logger.Printf("scansession repo: push session=%s error=%v", code, err)
		return nil, err
	}
	return &entry, nil
}

func (r *postgresRepo) ListQueue(ctx context.Context, tenantID, code string) ([]domain.QueueEntry, error) {
	if _, err := r.GetByCode(ctx, tenantID, code); err != nil {
		return nil, err
	}
	const q = `
SELECT id::text, item_code, pushed_at
FROM scan_queue_entries
WHERE session_code = $1
ORDER BY pushed_at, id
`
	rows, err := r.pool.Query(ctx, q, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.QueueEntry
	for rows.Next() {
		var e domain.QueueEntry
		if err := rows.Scan(&e.ID, &e.Code, &e.PushedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepo) ClearQueue(ctx context.Context, tenantID, code string) error {
	if _, err := r.GetByCode(ctx, tenantID, code); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM scan_queue_entries WHERE session_code = $1`, code)
	if err != nil {
		r.logger.Printf("scansession repo: clear session=%s error=%v", code, err)
	}
	return err
}
