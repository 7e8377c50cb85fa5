package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"retailpos/internal/domain"
	salerepo "retailpos/internal/repository/sale"
)

// createSaleHandler settles a transaction. Retries with the same idempotency
// key return the original confirmation instead of charging twice.
func createSaleHandler(repo salerepo.Repository, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := tenantFrom(c)

		var req domain.SaleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale payload"})
			return
		}
		if msg := validateSale(req); msg != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
			return
		}

		if req.IdempotencyKey != "" {
			conf, err := repo.GetByIdempotencyKey(c.Request.Context(), tenant.ID, req.IdempotencyKey)
			if err == nil {
				logger.Printf("sales: replayed idempotency_key=%s receipt=%s", req.IdempotencyKey, conf.ReceiptRef)
				c.JSON(http.StatusOK, conf)
				return
			}
			if !errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
		}

		conf, err := repo.Create(c.Request.Context(), salerepo.CreateSaleInput{
			TenantID:   tenant.ID,
			ReceiptRef: uuid.NewString(),
			Req:        req,
		})
		if err != nil {
			// A concurrent retry may have won the unique idempotency race.
			if req.IdempotencyKey != "" {
				if existing, lookupErr := repo.GetByIdempotencyKey(c.Request.Context(), tenant.ID, req.IdempotencyKey); lookupErr == nil {
					c.JSON(http.StatusOK, existing)
					return
				}
			}
			logger.Printf("sales: create failed tenant=%s error=%v", tenant.Key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, conf)
	}
}

// validateSale cross-checks the submitted arithmetic so a drifted client can
// never persist an inconsistent sale. Returns an empty string when valid.
func validateSale(req domain.SaleRequest) string {
	if len(req.Lines) == 0 {
		return "sale requires at least one line"
	}
	var subtotal int64
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return "line quantity must be positive"
		}
		if line.UnitPriceCents < 0 {
			return "line unit price must not be negative"
		}
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}
	if subtotal != req.SubtotalCents {
		return "subtotal does not match lines"
	}
	if req.DiscountCents < 0 || req.DiscountCents > req.SubtotalCents {
		return "discount out of range"
	}
	if req.TotalCents != req.SubtotalCents-req.DiscountCents+req.TaxCents {
		return "total does not match subtotal, discount and tax"
	}
	switch req.Method {
	case domain.PaymentCash, domain.PaymentCard:
	default:
		return "unknown payment method"
	}
	if req.TenderedCents < req.TotalCents {
		return "tendered amount below total"
	}
	return ""
}
