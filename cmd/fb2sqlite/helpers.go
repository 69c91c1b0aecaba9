package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/davosmed/fb2sqlite/internal/common"
	"github.com/davosmed/fb2sqlite/internal/fetch"
	"github.com/davosmed/fb2sqlite/internal/pipeline"
	"github.com/davosmed/fb2sqlite/internal/source"
	"github.com/davosmed/fb2sqlite/internal/storage"
)

// loadSourceTable returns the product catalog as parsed CSV rows. Unless
// useLocal is set it downloads a fresh snapshot to the cache file first.
func loadSourceTable(ctx context.Context, useLocal bool) ([][]string, error) {
	csvFile := viper.GetString("source.file")

	if useLocal {
		slog.Info("Reading local CSV", "file", csvFile)
	} else {
		url := viper.GetString("source.url")
		if err := fetch.Download(ctx, url, csvFile, fetch.DefaultTimeout); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrSourceRead, csvFile, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := source.ReadTable(f)
	if err != nil {
		return nil, err
	}

	slog.Info("Catalog loaded", "rows", len(rows))
	return rows, nil
}

// runPipeline streams rows into a fresh catalog database at dbPath.
func runPipeline(ctx context.Context, dbPath string, rows [][]string, cfg pipeline.Config) (pipeline.Result, error) {
	store, err := storage.NewCatalogStore(dbPath)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	coord := pipeline.New(store, cfg)
	return coord.Run(ctx, rows)
}
