// Package importer loads a CellarTracker CSV export into the cellar
// database: Latin-1 decoding, per-record normalization, and a one-time
// all-or-nothing bulk insert.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"winebuddy/internal/db/repository"
	"winebuddy/internal/domain"
)

// Result reports what an import run did.
type Result struct {
	// Loaded is the number of rows now in storage: freshly inserted rows
	// on a first import, or the pre-existing count when the import was a
	// no-op.
	Loaded int64

	// Skipped counts source records dropped by normalization failures.
	Skipped int

	// AlreadyLoaded is true when storage held rows before this run and
	// nothing was imported.
	AlreadyLoaded bool
}

// Importer performs the import-once bulk load.
type Importer struct {
	repo *repository.WineRepo
	log  *slog.Logger
}

// New creates an Importer. A nil logger falls back to slog.Default().
func New(repo *repository.WineRepo, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{repo: repo, log: log}
}

// ImportFile imports the CSV file at path. See Import.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import reads all records from src, normalizes each, and bulk-loads them
// in a single transaction. If storage already holds rows the import is a
// no-op returning the existing count: this tool deliberately imports once
// and never merges. Records that fail normalization are skipped and
// counted, never fatal; a storage failure aborts the transaction and
// leaves the table empty.
func (im *Importer) Import(ctx context.Context, src io.Reader) (Result, error) {
	existing, err := im.repo.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count existing rows: %w", err)
	}
	if existing > 0 {
		im.log.Debug("import skipped, database already populated", "rows", existing)
		return Result{Loaded: existing, AlreadyLoaded: true}, nil
	}

	records, err := readRecords(src)
	if err != nil {
		return Result{}, fmt.Errorf("read source: %w", err)
	}

	wines := make([]domain.Wine, 0, len(records))
	skipped := 0
	for i, rec := range records {
		w, err := NormalizeRecord(rec)
		if err != nil {
			skipped++
			im.log.Warn("skipping unparseable record", "record", i+1, "error", err)
			continue
		}
		wines = append(wines, w)
	}

	loaded, err := im.repo.BulkInsert(ctx, wines)
	if err != nil {
		return Result{}, fmt.Errorf("bulk insert: %w", err)
	}

	im.log.Info("import complete", "loaded", loaded, "skipped", skipped)
	return Result{Loaded: loaded, Skipped: skipped}, nil
}
