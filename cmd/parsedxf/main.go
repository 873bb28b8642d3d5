// Command parsedxf parses a drawing without the HTTP server and writes the
// result next to it as <name>.json and <name>.xlsx.
// Usage: go run ./cmd/parsedxf <drawing.dxf> [catalog-file]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"iolist/internal/catalog"
	"iolist/internal/config"
	"iolist/internal/domain"
	"iolist/internal/dxf"
	"iolist/internal/iolist"
	"iolist/internal/logging"
	"iolist/internal/repository/memory"
	"iolist/internal/service"
	"iolist/internal/storage/noop"
	"iolist/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New("usage: parsedxf <drawing.dxf> [catalog-file]")
	}
	drawingPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	catalogPath := cfg.Catalog.Path
	if len(os.Args) > 2 {
		catalogPath = os.Args[2]
	}

	logger := logging.Must(cfg.Log, cfg.Server.Environment)
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(drawingPath)
	if err != nil {
		return fmt.Errorf("opening drawing: %w", err)
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat drawing: %w", err)
	}

	catalogSvc := service.NewCatalogService(catalog.NewFileSource(catalogPath), nil, logger)
	svc := service.NewIOListService(catalogSvc, dxf.NewReader(), memory.NewParseRunRepo(),
		noop.NewNoopArchive(logger), service.IOListServiceConfig{
			MaxFileSizeBytes: cfg.Parse.MaxFileSizeBytes(),
			Options: iolist.Options{
				ExcludedLayers:     cfg.Parse.ExcludedLayers,
				FirstInputAddress:  cfg.Parse.FirstInputAddress,
				FirstOutputAddress: cfg.Parse.FirstOutputAddress,
			},
		}, logger)

	parsed, parseErr := svc.ParseDrawing(context.Background(), service.ParseInput{
		FileName: filepath.Base(drawingPath),
		Size:     info.Size(),
		Body:     f,
	})
	var readErr *domain.DrawingReadError
	if parseErr != nil && !errors.As(parseErr, &readErr) {
		return parseErr
	}

	base := strings.TrimSuffix(drawingPath, filepath.Ext(drawingPath))
	if err := writeJSON(base+".json", &parsed.Result); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}

	out, err := os.Create(base + ".xlsx")
	if err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}
	defer func() { _ = out.Close() }()
	if err := xlsxexport.Write(out, &parsed.Result); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	stats := parsed.Stats()
	logger.Info("tables written",
		zap.String("json", base+".json"),
		zap.String("xlsx", base+".xlsx"),
		zap.Int("total_components", stats.TotalComponents),
		zap.Int("total_io", stats.TotalIO))
	return nil
}

func writeJSON(path string, result *domain.ParseResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
