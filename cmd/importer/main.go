package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"retailpos/internal/config"
	"retailpos/internal/db"
	"retailpos/internal/domain"
	"retailpos/internal/importer"
	"retailpos/internal/repository/product"
	"retailpos/internal/repository/tenant"
)

func main() {
	var (
		filePath  string
		tenantKey string
	)
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.StringVar(&tenantKey, "tenant", "", "Tenant key to import into")
	flag.Parse()

	if filePath == "" || tenantKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	tenantRepo := tenant.NewPostgres(pool)
	ten, err := tenantRepo.GetByKey(ctx, tenantKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ten, err = tenantRepo.Create(ctx, &domain.Tenant{Key: tenantKey, Name: tenantKey})
		}
		if err != nil {
			log.Fatalf("ensure tenant %q: %v", tenantKey, err)
		}
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, nil), ten.ID)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products into tenant %s in %s\n", count, tenantKey, time.Since(start).Truncate(time.Millisecond))
}
