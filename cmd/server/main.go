package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"iolist/internal/catalog"
	"iolist/internal/config"
	"iolist/internal/dxf"
	"iolist/internal/handler"
	"iolist/internal/iolist"
	"iolist/internal/logging"
	"iolist/internal/port"
	"iolist/internal/repository/memory"
	"iolist/internal/repository/postgres"
	"iolist/internal/router"
	"iolist/internal/service"
	"iolist/internal/storage/noop"
	s3storage "iolist/internal/storage/s3"
)

// @title IO List API
// @version 1.0
// @description Extracts electrical I/O inventories and wiring tables from DXF drawings.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Must(cfg.Log, cfg.Server.Environment)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	var db *sqlx.DB
	checks := map[string]handler.ReadinessCheck{}
	if cfg.NeedsDB() {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		checks["postgres"] = postgres.ReadinessCheck(db)
	}

	// Initialize repositories
	var runRepo port.ParseRunRepository
	switch cfg.Store.Driver {
	case "postgres":
		runRepo = postgres.NewParseRunRepo(db)
	default:
		runRepo = memory.NewParseRunRepo()
	}

	var (
		catalogSource port.CatalogSource
		catalogStore  port.CatalogStore
	)
	switch cfg.Catalog.Source {
	case "postgres":
		catalogStore = postgres.NewCatalogRepo(db)
		catalogSource = catalogStore
	default:
		catalogSource = catalog.NewFileSource(cfg.Catalog.Path)
	}

	// Initialize storage
	var archive port.ObjectStorage
	switch cfg.Storage.Provider {
	case "s3":
		archive, err = s3storage.NewS3Archive(context.Background(), &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
		logger.Info("drawing archive enabled", zap.String("bucket", cfg.S3.Bucket))
	default:
		archive = noop.NewNoopArchive(logger)
	}

	// Initialize services
	catalogSvc := service.NewCatalogService(catalogSource, catalogStore, logger)
	ioListSvc := service.NewIOListService(catalogSvc, dxf.NewReader(), runRepo, archive,
		service.IOListServiceConfig{
			MaxFileSizeBytes: cfg.Parse.MaxFileSizeBytes(),
			Options: iolist.Options{
				ExcludedLayers:     cfg.Parse.ExcludedLayers,
				FirstInputAddress:  cfg.Parse.FirstInputAddress,
				FirstOutputAddress: cfg.Parse.FirstOutputAddress,
			},
		}, logger)

	// Catalog problems are reported at startup but every parse reloads it.
	if _, err := catalogSvc.Catalog(context.Background()); err != nil {
		logger.Warn("component catalog not loadable at startup", zap.Error(err))
	}

	// Initialize handlers
	ioListH := handler.NewIOListHandler(ioListSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	healthH := handler.NewHealthHandler(checks)

	// Setup router
	r := router.Setup(logger, cfg.CORS.AllowedOrigins, ioListH, catalogH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("run_store", cfg.Store.Driver),
			zap.String("catalog", catalogSvc.Describe()),
			zap.String("storage", cfg.Storage.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
