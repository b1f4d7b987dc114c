package repository

import (
	"context"
	"database/sql"
	"fmt"

	"winebuddy/internal/domain"
	"winebuddy/internal/sqlbuild"
)

// WineRepo reads and bulk-loads the wines table. Queries are built by the
// sqlbuild package; this type only executes them and scans rows.
type WineRepo struct {
	db *sql.DB
}

// NewWineRepo creates a new WineRepo.
func NewWineRepo(db *sql.DB) *WineRepo {
	return &WineRepo{db: db}
}

// Query executes a built wine query with its bound parameters and scans
// the result rows. The query must select sqlbuild.QueryColumns in order.
func (r *WineRepo) Query(ctx context.Context, query string, args []any) ([]domain.Wine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var wines []domain.Wine
	for rows.Next() {
		var w domain.Wine
		err := rows.Scan(
			&w.ID,
			&w.WineName,
			&w.Vintage,
			&w.Producer,
			&w.Varietal,
			&w.Color,
			&w.Country,
			&w.Region,
			&w.Subregion,
			&w.Quantity,
			&w.Value,
			&w.ProfessionalScore,
			&w.BeginConsume,
			&w.EndConsume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wine row: %w", err)
		}
		wines = append(wines, w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	return wines, nil
}

// Distinct returns the distinct, non-NULL values of a whitelisted column
// in ascending order. Numeric columns sort numerically because the ORDER BY
// runs on the typed column, not on the formatted value.
func (r *WineRepo) Distinct(ctx context.Context, col sqlbuild.DiscoverColumn) ([]string, error) {
	query, err := sqlbuild.BuildDiscovery(col)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	return values, nil
}

// Count returns the number of wine rows currently stored.
func (r *WineRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM wines").Scan(&n); err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}

const insertWineSQL = `
	INSERT INTO wines (
		color, category, size, currency, value, price,
		total_quantity, quantity, pending, vintage, wine_name,
		locale, producer, varietal, country, region, subregion,
		begin_consume, end_consume, professional_score, community_score
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// BulkInsert loads all wines inside a single transaction. Any failure
// rolls everything back, leaving the table untouched.
func (r *WineRepo) BulkInsert(ctx context.Context, wines []domain.Wine) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, insertWineSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare wine insert: %w", err)
	}
	defer stmt.Close()

	for i := range wines {
		w := &wines[i]
		_, err := stmt.ExecContext(ctx,
			w.Color, w.Category, w.Size, w.Currency, w.Value, w.Price,
			w.TotalQuantity, w.Quantity, w.Pending, w.Vintage, w.WineName,
			w.Locale, w.Producer, w.Varietal, w.Country, w.Region, w.Subregion,
			w.BeginConsume, w.EndConsume, w.ProfessionalScore, w.CommunityScore,
		)
		if err != nil {
			return 0, fmt.Errorf("insert wine %d: %w", i, mapDBError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk insert: %w", err)
	}
	return int64(len(wines)), nil
}
