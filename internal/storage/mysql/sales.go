package mysql

import (
	"context"
	"fmt"
	"strings"

	"sales-dashboard/internal/storage"
)

func (s *Storage) GetGroupedSales(ctx context.Context, period storage.SalesPeriod) ([]storage.GroupedSales, error) {
	const op = "storage.mysql.sales.GetGroupedSales"

	where, args := periodWhere(period)

	stmt := `SELECT DATE_FORMAT(sale_date, '%Y-%m') AS month, category, SUM(sales) AS total_sales
             FROM sales_data` + where + " GROUP BY month, category ORDER BY month, category"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query grouped sales: %w", op, err)
	}
	defer rows.Close()

	var result []storage.GroupedSales
	for rows.Next() {
		var g storage.GroupedSales
		if err := rows.Scan(&g.Month, &g.Category, &g.TotalSales); err != nil {
			return nil, fmt.Errorf("%s: failed to scan grouped sales row: %w", op, err)
		}
		result = append(result, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return result, nil
}

// GetCategoryTotals sums sales per category over the same period as GetGroupedSales.
func (s *Storage) GetCategoryTotals(ctx context.Context, period storage.SalesPeriod) ([]storage.CategoryTotal, error) {
	const op = "storage.mysql.sales.GetCategoryTotals"

	where, args := periodWhere(period)

	stmt := `SELECT category, SUM(sales) AS total_sales
             FROM sales_data` + where + " GROUP BY category ORDER BY category"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query category totals: %w", op, err)
	}
	defer rows.Close()

	var result []storage.CategoryTotal
	for rows.Next() {
		var c storage.CategoryTotal
		if err := rows.Scan(&c.Category, &c.TotalSales); err != nil {
			return nil, fmt.Errorf("%s: failed to scan category total: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return result, nil
}

// periodWhere renders the inclusive sale_date bounds as a WHERE clause (with a
// leading space) or an empty string when the period is open on both ends.
func periodWhere(period storage.SalesPeriod) (string, []interface{}) {
	var where []string
	var args []interface{}

	if period.From != nil {
		where = append(where, "sale_date >= ?")
		args = append(args, period.From.Format("2006-01-02"))
	}
	if period.To != nil {
		where = append(where, "sale_date <= ?")
		args = append(args, period.To.Format("2006-01-02"))
	}

	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (s *Storage) GetUniqueMonths(ctx context.Context) ([]string, error) {
	const op = "storage.mysql.sales.GetUniqueMonths"

	months, err := s.distinctStrings(ctx,
		`SELECT DISTINCT DATE_FORMAT(sale_date, '%Y-%m') AS month FROM sales_data ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return months, nil
}

func (s *Storage) GetUniqueCategories(ctx context.Context) ([]string, error) {
	const op = "storage.mysql.sales.GetUniqueCategories"

	categories, err := s.distinctStrings(ctx,
		`SELECT DISTINCT category FROM sales_data ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

// GetSalesRows returns raw rows for the flat view. No categories means all of them.
func (s *Storage) GetSalesRows(ctx context.Context, categories []string) ([]storage.SalesRecord, error) {
	const op = "storage.mysql.sales.GetSalesRows"

	stmt := `SELECT id, sale_date, category, sales, COALESCE(batch_id, '') FROM sales_data`
	var args []interface{}
	if len(categories) > 0 {
		stmt += " WHERE category IN (" + placeholders(len(categories)) + ")"
		for _, c := range categories {
			args = append(args, c)
		}
	}
	stmt += " ORDER BY sale_date, id"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query sales rows: %w", op, err)
	}
	defer rows.Close()

	var result []storage.SalesRecord
	for rows.Next() {
		var r storage.SalesRecord
		if err := rows.Scan(&r.ID, &r.Date, &r.Category, &r.Sales, &r.BatchID); err != nil {
			return nil, fmt.Errorf("%s: failed to scan sales row: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return result, nil
}

// SaveSales inserts records in one transaction and returns how many were written.
func (s *Storage) SaveSales(ctx context.Context, batchID string, records []storage.SalesRecord) (int, error) {
	const op = "storage.mysql.sales.SaveSales"

	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sales_data (sale_date, category, sales, batch_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare insert: %w", op, err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Date.Format("2006-01-02"), r.Category, r.Sales, batchID); err != nil {
			return 0, fmt.Errorf("%s: insert row %d: %w", op, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return len(records), nil
}

func (s *Storage) distinctStrings(ctx context.Context, stmt string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
