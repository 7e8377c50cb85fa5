package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retailpos/internal/domain"
	salerepo "retailpos/internal/repository/sale"
	"github.com/gin-gonic/gin"
)

type stubSaleRepo struct {
	created  []salerepo.CreateSaleInput
	existing map[string]*domain.SaleConfirmation
	err      error
}

func (s *stubSaleRepo) Create(_ context.Context, in salerepo.CreateSaleInput) (*domain.SaleConfirmation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, in)
	change := in.Req.TenderedCents - in.Req.TotalCents
	conf := &domain.SaleConfirmation{
		ReceiptRef:    in.ReceiptRef,
		TenderedCents: in.Req.TenderedCents,
		ChangeCents:   change,
		CreatedAt:     time.Now(),
	}
	if s.existing == nil {
		s.existing = map[string]*domain.SaleConfirmation{}
	}
	if in.Req.IdempotencyKey != "" {
		s.existing[in.Req.IdempotencyKey] = conf
	}
	return conf, nil
}

func (s *stubSaleRepo) GetByIdempotencyKey(_ context.Context, _, key string) (*domain.SaleConfirmation, error) {
	if conf, ok := s.existing[key]; ok {
		return conf, nil
	}
	return nil, domain.ErrNotFound
}

func salesRouter(repo salerepo.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := log.New(io.Discard, "", 0)
	router.Use(tenantMiddleware(&stubTenantRepo{tenant: &domain.Tenant{ID: "t1", Key: "demo"}}))
	router.POST("/tenants/:tenantKey/pos/sales", createSaleHandler(repo, logger))
	return router
}

func validSaleRequest() domain.SaleRequest {
	return domain.SaleRequest{
		Lines: []domain.SaleLine{
			{ProductID: "a", Name: "Product A", UnitPriceCents: 1000, Quantity: 2},
			{ProductID: "b", Name: "Product B", UnitPriceCents: 2500, Quantity: 1},
		},
		SubtotalCents:  4500,
		DiscountCents:  450,
		TaxCents:       405,
		TotalCents:     4455,
		Method:         domain.PaymentCash,
		TenderedCents:  5000,
		IdempotencyKey: "k-1",
	}
}

func postSale(t *testing.T, router *gin.Engine, req domain.SaleRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	httpReq := httptest.NewRequest(http.MethodPost, "/tenants/demo/pos/sales", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httpReq)
	return rec
}

func TestCreateSale_SettlesAndComputesChange(t *testing.T) {
	repo := &stubSaleRepo{}
	rec := postSale(t, salesRouter(repo), validSaleRequest())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var conf domain.SaleConfirmation
	if err := json.Unmarshal(rec.Body.Bytes(), &conf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if conf.ChangeCents != 545 {
		t.Fatalf("expected change 545, got %d", conf.ChangeCents)
	}
	if conf.ReceiptRef == "" {
		t.Fatal("expected receipt ref assigned")
	}
}

func TestCreateSale_IdempotentReplay(t *testing.T) {
	repo := &stubSaleRepo{}
	router := salesRouter(repo)
	first := postSale(t, router, validSaleRequest())
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}
	second := postSale(t, router, validSaleRequest())
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", second.Code)
	}
	if len(repo.created) != 1 {
		t.Fatalf("replay created a second sale: %d", len(repo.created))
	}
	var a, b domain.SaleConfirmation
	if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if a.ReceiptRef != b.ReceiptRef {
		t.Fatalf("replay issued a different receipt: %s vs %s", a.ReceiptRef, b.ReceiptRef)
	}
}

func TestCreateSale_RejectsInconsistentArithmetic(t *testing.T) {
	repo := &stubSaleRepo{}
	router := salesRouter(repo)

	broken := validSaleRequest()
	broken.TotalCents = 9999
	if rec := postSale(t, router, broken); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for drifted total, got %d", rec.Code)
	}

	short := validSaleRequest()
	short.TenderedCents = 4000
	if rec := postSale(t, router, short); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for short tender, got %d", rec.Code)
	}

	empty := validSaleRequest()
	empty.Lines = nil
	if rec := postSale(t, router, empty); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty lines, got %d", rec.Code)
	}

	if len(repo.created) != 0 {
		t.Fatalf("invalid sales were persisted: %d", len(repo.created))
	}
}
