// Command seedcatalog loads a component catalog file into the components
// table. JSON, YAML and XLSX files are accepted.
// Usage: go run ./cmd/seedcatalog [catalog-file]
// Defaults to IOLIST_CATALOG_PATH.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"iolist/internal/config"
	"iolist/internal/logging"
	"iolist/internal/repository/postgres"
	"iolist/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Must(cfg.Log, cfg.Server.Environment)
	defer func() { _ = logger.Sync() }()

	path := cfg.Catalog.Path
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog file: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	store := postgres.NewCatalogRepo(db)
	svc := service.NewCatalogService(store, store, logger)

	cat, err := svc.Import(context.Background(), data)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	logger.Info("catalog seeded",
		zap.String("file", path),
		zap.String("store", store.Describe()),
		zap.Int("entries", cat.Len()))
	return nil
}
