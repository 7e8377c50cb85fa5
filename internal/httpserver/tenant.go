package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"retailpos/internal/domain"
	tenantrepo "retailpos/internal/repository/tenant"
)

type ctxKey string

const tenantCtxKey ctxKey = "tenant"

// tenantMiddleware resolves :tenantKey and stores the tenant on the request
// context for downstream handlers.
func tenantMiddleware(repo tenantrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.Param("tenantKey"))
		if key == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "tenant key required"})
			return
		}
		tenant, err := repo.GetByKey(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), tenantCtxKey, tenant)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func tenantFrom(c *gin.Context) *domain.Tenant {
	tenant, _ := c.Request.Context().Value(tenantCtxKey).(*domain.Tenant)
	return tenant
}
