package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/costvar/internal/db"
	"github.com/alexanderramin/costvar/internal/domain"
)

// SQLiteProcessBreakdownRepo stores the per-operation cost split of a session.
type SQLiteProcessBreakdownRepo struct {
	db db.DBTX
}

func NewSQLiteProcessBreakdownRepo(conn db.DBTX) *SQLiteProcessBreakdownRepo {
	return &SQLiteProcessBreakdownRepo{db: conn}
}

func (r *SQLiteProcessBreakdownRepo) CreateBatch(ctx context.Context, items []domain.ProcessBreakdown) error {
	query := `INSERT INTO process_breakdown (id, session_id, process_id, process_desc, equipment_desc,
		setup_cost_target, setup_cost_actual, labor_cost_target, labor_cost_actual,
		burden_cost_target, burden_cost_actual)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, p := range items {
		_, err := r.db.ExecContext(ctx, query,
			p.ID, p.SessionID, p.ProcessID, p.ProcessDesc, p.EquipmentDesc,
			p.SetupCostTarget, p.SetupCostActual,
			p.LaborCostTarget, p.LaborCostActual,
			p.BurdenCostTarget, p.BurdenCostActual,
		)
		if err != nil {
			return fmt.Errorf("inserting process breakdown %s: %w", p.ProcessID, err)
		}
	}
	return nil
}

func (r *SQLiteProcessBreakdownRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.ProcessBreakdown, error) {
	query := `SELECT id, session_id, process_id, process_desc, equipment_desc,
		setup_cost_target, setup_cost_actual, labor_cost_target, labor_cost_actual,
		burden_cost_target, burden_cost_actual
		FROM process_breakdown WHERE session_id = ? ORDER BY process_id`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing process breakdown: %w", err)
	}
	defer rows.Close()

	var out []domain.ProcessBreakdown
	for rows.Next() {
		var p domain.ProcessBreakdown
		if err := rows.Scan(
			&p.ID, &p.SessionID, &p.ProcessID, &p.ProcessDesc, &p.EquipmentDesc,
			&p.SetupCostTarget, &p.SetupCostActual,
			&p.LaborCostTarget, &p.LaborCostActual,
			&p.BurdenCostTarget, &p.BurdenCostActual,
		); err != nil {
			return nil, fmt.Errorf("scanning process breakdown row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating process breakdown: %w", err)
	}
	return out, nil
}

func (r *SQLiteProcessBreakdownRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM process_breakdown WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("deleting process breakdown: %w", err)
	}
	return res.RowsAffected()
}
