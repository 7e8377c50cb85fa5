package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retailpos/internal/domain"
)

func TestClient_ListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tenants/demo/pos/products" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"products": []domain.Product{
				{ID: "p1", Name: "Product A", Code: "PROD-A", UnitPriceCents: 1000},
			},
			"total": 1,
		})
	}))
	defer server.Close()

	client := New(server.URL, "demo")
	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 || products[0].Code != "PROD-A" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestClient_SubmitSale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tenants/demo/pos/sales" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req domain.SaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.IdempotencyKey == "" {
			t.Fatal("expected idempotency key on the wire")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.SaleConfirmation{
			ReceiptRef:    "r-1",
			TenderedCents: req.TenderedCents,
			ChangeCents:   req.TenderedCents - req.TotalCents,
			CreatedAt:     time.Now(),
		})
	}))
	defer server.Close()

	client := New(server.URL, "demo")
	conf, err := client.SubmitSale(context.Background(), domain.SaleRequest{
		Lines:          []domain.SaleLine{{ProductID: "p1", Name: "Product A", UnitPriceCents: 4455, Quantity: 1}},
		SubtotalCents:  4455,
		TotalCents:     4455,
		Method:         domain.PaymentCash,
		TenderedCents:  5000,
		IdempotencyKey: "k-1",
	})
	if err != nil {
		t.Fatalf("SubmitSale: %v", err)
	}
	if conf.ReceiptRef != "r-1" || conf.ChangeCents != 545 {
		t.Fatalf("unexpected confirmation %+v", conf)
	}
}

func TestClient_SubmitSale_SurfacesValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "tendered amount below total"})
	}))
	defer server.Close()

	client := New(server.URL, "demo")
	_, err := client.SubmitSale(context.Background(), domain.SaleRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Message != "tendered amount below total" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestClient_RemoteScanQueue(t *testing.T) {
	queue := []domain.QueueEntry{
		{ID: "e1", Code: "4006381333931", PushedAt: time.Now()},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/tenants/demo/pos/scan-sessions/temporary":
			expires := time.Now().Add(5 * time.Minute)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(domain.RemoteScanSession{
				Code: "s-1", Kind: domain.ScanSessionTemporary, ExpiresAt: &expires,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/tenants/demo/pos/scan-sessions/s-1/queue":
			json.NewEncoder(w).Encode(map[string]any{"entries": queue})
		case r.Method == http.MethodDelete && r.URL.Path == "/tenants/demo/pos/scan-sessions/s-1/queue":
			queue = nil
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := New(server.URL, "demo")
	ctx := context.Background()

	session, err := client.CreateTemporarySession(ctx)
	if err != nil {
		t.Fatalf("CreateTemporarySession: %v", err)
	}
	if session.Code != "s-1" || session.ExpiresAt == nil {
		t.Fatalf("unexpected session %+v", session)
	}

	entries, err := client.PollQueue(ctx, session.Code)
	if err != nil {
		t.Fatalf("PollQueue: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Fatalf("unexpected entries %+v", entries)
	}

	if err := client.ClearQueue(ctx, session.Code); err != nil {
		t.Fatalf("ClearQueue: %v", err)
	}
	entries, err = client.PollQueue(ctx, session.Code)
	if err != nil {
		t.Fatalf("PollQueue after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected drained queue, got %+v", entries)
	}
}

func TestClient_ExpiredSessionIsGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
		json.NewEncoder(w).Encode(map[string]string{"error": "scan session expired"})
	}))
	defer server.Close()

	client := New(server.URL, "demo")
	_, err := client.PollQueue(context.Background(), "stale")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusGone {
		t.Fatalf("expected 410 APIError, got %v", err)
	}
}
