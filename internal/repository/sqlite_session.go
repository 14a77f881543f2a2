package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/costvar/internal/db"
	"github.com/alexanderramin/costvar/internal/domain"
)

const sessionColumns = `session_id, part_number, part_description, supplier_name, currency,
	target_price, supplier_price, total_variance, variance_pct, upload_time, file_name, file_hash`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.PartNumber,
		s.PartDescription,
		s.SupplierName,
		s.Currency,
		s.TargetPrice,
		s.SupplierPrice,
		s.TotalVariance,
		s.VariancePct,
		formatTime(s.UploadTime),
		s.FileName,
		s.FileHash,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE session_id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSessionRepo) FindByFileHash(ctx context.Context, hash string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE file_hash = ? AND file_hash != ''
		ORDER BY upload_time, rowid LIMIT 1`
	return r.scanSession(r.db.QueryRowContext(ctx, query, hash))
}

func (r *SQLiteSessionRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		ORDER BY upload_time DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *SQLiteSessionRepo) ListIDsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT session_id FROM sessions
		WHERE session_id LIKE ? || '%' ESCAPE '\'
		ORDER BY upload_time DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, likeEscaper.Replace(prefix))
	if err != nil {
		return nil, fmt.Errorf("matching session IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session IDs: %w", err)
	}
	return ids, nil
}

// Delete removes the session header. Child rows are removed by their own
// repositories inside the same transaction.
func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	s, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return s, nil
}

func (r *SQLiteSessionRepo) scan(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var uploadTime string
	err := row.Scan(
		&s.ID, &s.PartNumber, &s.PartDescription, &s.SupplierName, &s.Currency,
		&s.TargetPrice, &s.SupplierPrice, &s.TotalVariance, &s.VariancePct,
		&uploadTime, &s.FileName, &s.FileHash,
	)
	if err != nil {
		return nil, err
	}
	if s.UploadTime, err = parseTime(uploadTime); err != nil {
		return nil, fmt.Errorf("parsing upload_time %q: %w", uploadTime, err)
	}
	return &s, nil
}
