package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	customerrepo "retailpos/internal/repository/customer"
	productrepo "retailpos/internal/repository/product"
	salerepo "retailpos/internal/repository/sale"
	scansessionrepo "retailpos/internal/repository/scansession"
	tenantrepo "retailpos/internal/repository/tenant"
)

// Deps carries the repositories the POS routes need.
type Deps struct {
	TenantRepo      tenantrepo.Repository
	ProductRepo     productrepo.Repository
	CustomerRepo    customerrepo.Repository
	SaleRepo        salerepo.Repository
	ScanSessionRepo scansessionrepo.Repository

	// TempSessionTTL is the validity window for temporary scan sessions.
	TempSessionTTL time.Duration
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	pos := router.Group("/tenants/:tenantKey/pos", tenantMiddleware(deps.TenantRepo))
	{
		pos.GET("/products", listProductsHandler(deps.ProductRepo))
		pos.GET("/customers", listCustomersHandler(deps.CustomerRepo))
		pos.POST("/sales", createSaleHandler(deps.SaleRepo, logger))

		pos.POST("/scan-sessions/permanent", createScanSessionHandler(deps.ScanSessionRepo, false, deps.TempSessionTTL))
		pos.POST("/scan-sessions/temporary", createScanSessionHandler(deps.ScanSessionRepo, true, deps.TempSessionTTL))
		pos.POST("/scan-sessions/:code/items", pushScanItemHandler(deps.ScanSessionRepo))
		pos.GET("/scan-sessions/:code/queue", listScanQueueHandler(deps.ScanSessionRepo))
		pos.DELETE("/scan-sessions/:code/queue", clearScanQueueHandler(deps.ScanSessionRepo))
	}

	return router
}
