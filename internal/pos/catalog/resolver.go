package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"retailpos/internal/domain"
)

// Source provides the sellable product list, typically the tenant catalog
// endpoint. The POS loads it once per session and refreshes on demand.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// NotFoundError reports a scanned code with no catalog match. It carries the
// raw code so the UI can show it for manual correction instead of a generic
// failure.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("code %q not in catalog", e.Code)
}

// Resolver maps normalized scan codes to products through a read-through
// cache of the catalog. Matching is case-insensitive over the primary code
// and all alternate codes with equal priority; when two products share a
// code, the first in catalog order wins.
type Resolver struct {
	source Source
	logger *log.Logger

	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
}

func New(source Source, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{source: source, logger: logger}
}

// Load fetches the product list and rebuilds the code index. Staleness
// within a session is acceptable; call Load again to refresh.
func (r *Resolver) Load(ctx context.Context) error {
	products, err := r.source.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	index := make(map[string]int, len(products))
	for i, p := range products {
		indexCode(index, p.Code, i)
		for _, alt := range p.AlternateCodes {
			indexCode(index, alt, i)
		}
	}
	r.mu.Lock()
	r.products = products
	r.index = index
	r.mu.Unlock()
	r.logger.Printf("catalog: loaded products=%d codes=%d", len(products), len(index))
	return nil
}

// Resolve maps a scanned code to a product. A miss returns *NotFoundError
// carrying the raw code.
func (r *Resolver) Resolve(code string) (*domain.Product, error) {
	key := normalizeCode(code)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if key != "" {
		if i, ok := r.index[key]; ok {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, &NotFoundError{Code: code}
}

// Products returns the cached catalog snapshot.
func (r *Resolver) Products() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out
}

func indexCode(index map[string]int, code string, i int) {
	key := normalizeCode(code)
	if key == "" {
		return
	}
	// First product to claim a code keeps it; duplicates are a catalog
	// data-integrity problem, not ours to resolve.
	if _, taken := index[key]; !taken {
		index[key] = i
	}
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
