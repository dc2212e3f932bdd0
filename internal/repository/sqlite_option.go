package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
)

// optionColumns is the canonical SELECT column list for cpq_options.
const optionColumns = `id, factor_id, name, sort_order, created_at, updated_at`

// SQLiteOptionRepo implements OptionRepo on a SQLite connection or
// transaction.
type SQLiteOptionRepo struct {
	db db.DBTX
}

// NewSQLiteOptionRepo creates a new SQLiteOptionRepo.
func NewSQLiteOptionRepo(conn db.DBTX) *SQLiteOptionRepo {
	return &SQLiteOptionRepo{db: conn}
}

func (r *SQLiteOptionRepo) Create(ctx context.Context, o *domain.Option) error {
	query := `INSERT INTO cpq_options (factor_id, name, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		o.FactorID,
		o.Name,
		o.SortOrder,
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting option: %w", constraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading option id: %w", err)
	}
	o.ID = id
	return nil
}

func (r *SQLiteOptionRepo) GetByID(ctx context.Context, id int64) (*domain.Option, error) {
	query := `SELECT ` + optionColumns + ` FROM cpq_options WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var o domain.Option
	var createdAt, updatedAt string
	err := row.Scan(&o.ID, &o.FactorID, &o.Name, &o.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("option: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning option: %w", err)
	}
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return &o, nil
}

func (r *SQLiteOptionRepo) ListByFactor(ctx context.Context, factorID int64) ([]*domain.Option, error) {
	query := `SELECT ` + optionColumns + ` FROM cpq_options WHERE factor_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, factorID)
	if err != nil {
		return nil, fmt.Errorf("listing options: %w", err)
	}
	defer rows.Close()

	var options []*domain.Option
	for rows.Next() {
		var o domain.Option
		var createdAt, updatedAt string
		if err := rows.Scan(&o.ID, &o.FactorID, &o.Name, &o.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning option row: %w", err)
		}
		o.CreatedAt = parseTime(createdAt)
		o.UpdatedAt = parseTime(updatedAt)
		options = append(options, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating options: %w", err)
	}
	return options, nil
}

func (r *SQLiteOptionRepo) Update(ctx context.Context, o *domain.Option) error {
	query := `UPDATE cpq_options SET name = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, o.Name, o.SortOrder, formatTime(o.UpdatedAt), o.ID)
	if err != nil {
		return fmt.Errorf("updating option: %w", err)
	}
	return nil
}

func (r *SQLiteOptionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_options WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting option: %w", err)
	}
	return nil
}

func (r *SQLiteOptionRepo) DeleteByFactor(ctx context.Context, factorID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_options WHERE factor_id = ?`, factorID); err != nil {
		return fmt.Errorf("deleting options by factor: %w", err)
	}
	return nil
}
