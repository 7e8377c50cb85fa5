package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"retailpos/internal/domain"
)

// Client is the terminal-side HTTP client for the tenant-scoped POS API. It
// satisfies the catalog source, sale submitter and remote scan queue
// interfaces the engine packages consume.
type Client struct {
	baseURL   string
	tenantKey string
	http      *http.Client
}

// APIError carries the status and message of a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

func New(baseURL, tenantKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tenantKey: tenantKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s/tenants/%s/pos%s", c.baseURL, c.tenantKey, path)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var page struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products", nil, &page); err != nil {
		return nil, err
	}
	return page.Products, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var page struct {
		Customers []domain.Customer `json:"customers"`
	}
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &page); err != nil {
		return nil, err
	}
	return page.Customers, nil
}

func (c *Client) SubmitSale(ctx context.Context, req domain.SaleRequest) (*domain.SaleConfirmation, error) {
	var conf domain.SaleConfirmation
	if err := c.do(ctx, http.MethodPost, "/sales", req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Client) CreatePermanentSession(ctx context.Context) (*domain.RemoteScanSession, error) {
	var session domain.RemoteScanSession
	if err := c.do(ctx, http.MethodPost, "/scan-sessions/permanent", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) CreateTemporarySession(ctx context.Context) (*domain.RemoteScanSession, error) {
	var session domain.RemoteScanSession
	if err := c.do(ctx, http.MethodPost, "/scan-sessions/temporary", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// PushItem is what the detached scanning device calls; terminals normally
// only poll and clear.
func (c *Client) PushItem(ctx context.Context, sessionCode, itemCode string) (*domain.QueueEntry, error) {
	var entry domain.QueueEntry
	body := map[string]string{"code": itemCode}
	if err := c.do(ctx, http.MethodPost, "/scan-sessions/"+sessionCode+"/items", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) PollQueue(ctx context.Context, sessionCode string) ([]domain.QueueEntry, error) {
	var page struct {
		Entries []domain.QueueEntry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/scan-sessions/"+sessionCode+"/queue", nil, &page); err != nil {
		return nil, err
	}
	return page.Entries, nil
}

func (c *Client) ClearQueue(ctx context.Context, sessionCode string) error {
	return c.do(ctx, http.MethodDelete, "/scan-sessions/"+sessionCode+"/queue", nil, nil)
}
