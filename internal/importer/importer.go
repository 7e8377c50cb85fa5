package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"retailpos/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products for one
// tenant. Expected headers: code, name, alternate_codes (semicolon
// separated), unit_price_cents, currency, category.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	tenantID    string
}

func NewCSVImporter(r io.Reader, repo ProductWriter, tenantID string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		tenantID:    tenantID,
	}
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		product, err := parseRow(record, index, i.tenantID)
		if err != nil {
			return imported, err
		}
		if product == nil {
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, *product); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", product.Code, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, tenantID string) (*domain.Product, error) {
	code := pick(record, index, "code")
	name := pick(record, index, "name")
	centStr := pick(record, index, "unit_price_cents")
	currency := pick(record, index, "currency")

	if code == "" && name == "" {
		return nil, nil
	}
	if code == "" || name == "" || centStr == "" || currency == "" {
		return nil, fmt.Errorf("invalid product row (missing required fields) for code %q", code)
	}

	cents, err := strconv.ParseInt(centStr, 10, 64)
	if err != nil || cents < 0 {
		return nil, fmt.Errorf("invalid unit_price_cents for code %q: %s", code, centStr)
	}

	var alternates []string
	if raw := pick(record, index, "alternate_codes"); raw != "" {
		for _, alt := range strings.Split(raw, ";") {
			if alt = strings.TrimSpace(alt); alt != "" {
				alternates = append(alternates, alt)
			}
		}
	}

	return &domain.Product{
		TenantID:       tenantID,
		Name:           name,
		Code:           code,
		AlternateCodes: alternates,
		UnitPriceCents: cents,
		Currency:       currency,
		Category:       pick(record, index, "category"),
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
