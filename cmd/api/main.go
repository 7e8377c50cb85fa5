package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"retailpos/internal/config"
	"retailpos/internal/db"
	"retailpos/internal/httpserver"
	customerrepo "retailpos/internal/repository/customer"
	productrepo "retailpos/internal/repository/product"
	salerepo "retailpos/internal/repository/sale"
	scansessionrepo "retailpos/internal/repository/scansession"
	tenantrepo "retailpos/internal/repository/tenant"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		TenantRepo:      tenantrepo.NewPostgres(dbpool),
		ProductRepo:     productrepo.NewPostgres(dbpool, logger),
		CustomerRepo:    customerrepo.NewPostgres(dbpool, logger),
		SaleRepo:        salerepo.NewPostgres(dbpool, logger),
		ScanSessionRepo: scansessionrepo.NewPostgres(dbpool, logger),
		TempSessionTTL:  cfg.TempSessionTTL,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
