package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retailpos/internal/domain"
	customerrepo "retailpos/internal/repository/customer"
	productrepo "retailpos/internal/repository/product"
)

func listProductsHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := tenantFrom(c)
		products, err := repo.ListByTenant(c.Request.Context(), tenant.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
	}
}

func listCustomersHandler(repo customerrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := tenantFrom(c)
		customers, err := repo.ListByTenant(c.Request.Context(), tenant.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if customers == nil {
			customers = []domain.Customer{}
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers, "total": len(customers)})
	}
}
