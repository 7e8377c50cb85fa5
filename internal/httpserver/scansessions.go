package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"retailpos/internal/domain"
	scansessionrepo "retailpos/internal/repository/scansession"
)

func createScanSessionHandler(repo scansessionrepo.Repository, temporary bool, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := tenantFrom(c)
		kind := domain.ScanSessionPermanent
		var expiresAt *time.Time
		if temporary {
			kind = domain.ScanSessionTemporary
			if ttl <= 0 {
				ttl = 5 * time.Minute
			}
			t := time.Now().Add(ttl)
			expiresAt = &t
		}
		session, err := repo.Create(c.Request.Context(), tenant.ID, kind, expiresAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

type pushItemRequest struct {
	Code string `json:"code" binding:"required"`
}

func pushScanItemHandler(repo scansessionrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := tenantFrom(c)
		sessionCode := strings.TrimSpace(c.Param("code"))

		var req pushItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item code required"})
			return
		}
		entry, err := repo.PushItem(c.Request.Context(), tenant.ID, sessionCode, req.Code)
		if err != nil {
			respondSessionError(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

func listScanQueueHandler(repo scansessionrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := tenantFrom(c)
		entries, err := repo.ListQueue(c.Request.Context(), tenant.ID, strings.TrimSpace(c.Param("code")))
		if err != nil {
			respondSessionError(c, err)
			return
		}
		if entries == nil {
			entries = []domain.QueueEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

func clearScanQueueHandler(repo scansessionrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := tenantFrom(c)
		if err := repo.ClearQueue(c.Request.Context(), tenant.ID, strings.TrimSpace(c.Param("code"))); err != nil {
			respondSessionError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "scan session not found"})
	case errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "scan session expired"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
