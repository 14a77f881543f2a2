package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/costvar/internal/db"
	"github.com/alexanderramin/costvar/internal/domain"
)

// SQLiteCostItemRepo stores flattened cost tree rows.
type SQLiteCostItemRepo struct {
	db db.DBTX
}

func NewSQLiteCostItemRepo(conn db.DBTX) *SQLiteCostItemRepo {
	return &SQLiteCostItemRepo{db: conn}
}

// CreateBatch inserts rows in order. Call it inside a UnitOfWork so a
// failure leaves none of them behind.
func (r *SQLiteCostItemRepo) CreateBatch(ctx context.Context, rows []domain.CostItemRow) error {
	query := `INSERT INTO cost_items (row_id, session_id, item_id, parent_id, level, category,
		item_name, target_cost, actual_cost, variance, variance_pct, sort_order, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, row := range rows {
		_, err := r.db.ExecContext(ctx, query,
			row.RowID,
			row.SessionID,
			row.ItemID,
			nullableString(row.ParentID),
			row.Level,
			string(row.Category),
			row.ItemName,
			row.TargetCost,
			row.ActualCost,
			row.Variance,
			row.VariancePct,
			row.SortOrder,
			nullableJSON(row.Metadata),
		)
		if err != nil {
			return fmt.Errorf("inserting cost item %s: %w", row.ItemID, err)
		}
	}
	return nil
}

func (r *SQLiteCostItemRepo) ListByView(ctx context.Context, sessionID string, view domain.View) ([]domain.CostItemRow, error) {
	prefix := string(view) + "_"
	query := `SELECT row_id, session_id, item_id, parent_id, level, category, item_name,
		target_cost, actual_cost, variance, variance_pct, sort_order, metadata
		FROM cost_items
		WHERE session_id = ? AND substr(item_id, 1, ?) = ?
		ORDER BY level, sort_order`
	rows, err := r.db.QueryContext(ctx, query, sessionID, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("listing cost items: %w", err)
	}
	defer rows.Close()

	var out []domain.CostItemRow
	for rows.Next() {
		var row domain.CostItemRow
		var parentID, metadata sql.NullString
		var category string
		if err := rows.Scan(
			&row.RowID, &row.SessionID, &row.ItemID, &parentID, &row.Level, &category, &row.ItemName,
			&row.TargetCost, &row.ActualCost, &row.Variance, &row.VariancePct, &row.SortOrder, &metadata,
		); err != nil {
			return nil, fmt.Errorf("scanning cost item row: %w", err)
		}
		row.Category = domain.Category(category)
		row.ParentID = stringPtr(parentID)
		row.Metadata = jsonBytes(metadata)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cost items: %w", err)
	}
	return out, nil
}

func (r *SQLiteCostItemRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cost_items WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting cost items: %w", err)
	}
	return n, nil
}

func (r *SQLiteCostItemRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cost_items WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("deleting cost items: %w", err)
	}
	return res.RowsAffected()
}
