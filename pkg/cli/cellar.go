package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	internaldb "winebuddy/internal/db"
	"winebuddy/internal/db/repository"
	"winebuddy/internal/importer"
)

// openCellar returns a read connection to the cellar database, creating
// and populating it from the CSV export on first use. When neither the
// database nor the CSV exist, it prints setup instructions and fails.
func (s *session) openCellar(ctx context.Context) (*sql.DB, error) {
	if _, err := os.Stat(s.dbPath); err == nil {
		return internaldb.OpenSQLite(s.dbPath, "read")
	}

	if _, err := os.Stat(s.csvPath); err != nil {
		printSetupInstructions(s.csvPath)
		return nil, fmt.Errorf("no cellar database at %s and no CSV export at %s", s.dbPath, s.csvPath)
	}

	s.log.Info("database not found, initializing from CSV", "db", s.dbPath, "csv", s.csvPath)
	res, err := s.runImport(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("cellar initialized", "wines", res.Loaded)

	return internaldb.OpenSQLite(s.dbPath, "read")
}

// runImport opens the database in write mode, creates the schema if
// needed, and performs the import-once bulk load.
func (s *session) runImport(ctx context.Context) (importer.Result, error) {
	wdb, err := internaldb.OpenSQLite(s.dbPath, "write")
	if err != nil {
		return importer.Result{}, err
	}
	defer wdb.Close()

	if err := internaldb.RunMigrations(wdb); err != nil {
		return importer.Result{}, err
	}

	im := importer.New(repository.NewWineRepo(wdb), s.log)
	return im.ImportFile(ctx, s.csvPath)
}

// printSetupInstructions explains how to export cellar data from
// CellarTracker when no source file is present.
func printSetupInstructions(csvPath string) {
	fmt.Fprintf(os.Stdout, `
WineBuddy Setup
===============

%s file not found.

To get started, you need to export your wine data from CellarTracker:

1. Go to CellarTracker: https://mobileapp.cellartracker.com
2. Log in to your account
3. Navigate to your cellar and click "Export"
4. Configure the export:
   - Include wines from ALL pages
   - Export Format: Comma Separated Values
   - Select these columns:
     Color, Category, Size, Currency, Value, Price, TotalQuantity,
     Quantity, Pending, Vintage, Wine, Locale, Producer, Varietal,
     Country, Region, SubRegion, BeginConsume, EndConsume, PScore, CScore
5. Download and save the file as %s
6. Run winebuddy again
`, csvPath, csvPath)
}
