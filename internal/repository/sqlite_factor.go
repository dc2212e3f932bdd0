package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
)

// factorColumns is the canonical SELECT column list for cpq_factors.
const factorColumns = `id, product_id, name, is_optional, sort_order, created_at, updated_at`

// SQLiteFactorRepo implements FactorRepo on a SQLite connection or
// transaction.
type SQLiteFactorRepo struct {
	db db.DBTX
}

// NewSQLiteFactorRepo creates a new SQLiteFactorRepo.
func NewSQLiteFactorRepo(conn db.DBTX) *SQLiteFactorRepo {
	return &SQLiteFactorRepo{db: conn}
}

func (r *SQLiteFactorRepo) Create(ctx context.Context, f *domain.Factor) error {
	query := `INSERT INTO cpq_factors (product_id, name, is_optional, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		f.ProductID,
		f.Name,
		boolToInt(f.IsOptional),
		f.SortOrder,
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting factor: %w", constraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading factor id: %w", err)
	}
	f.ID = id
	return nil
}

func (r *SQLiteFactorRepo) GetByID(ctx context.Context, id int64) (*domain.Factor, error) {
	query := `SELECT ` + factorColumns + ` FROM cpq_factors WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var f domain.Factor
	var optionalInt int
	var createdAt, updatedAt string
	err := row.Scan(&f.ID, &f.ProductID, &f.Name, &optionalInt, &f.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("factor: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning factor: %w", err)
	}
	f.IsOptional = intToBool(optionalInt)
	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTime(updatedAt)
	return &f, nil
}

func (r *SQLiteFactorRepo) ListByProduct(ctx context.Context, productID int64) ([]*domain.Factor, error) {
	query := `SELECT ` + factorColumns + ` FROM cpq_factors WHERE product_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing factors: %w", err)
	}
	defer rows.Close()

	var factors []*domain.Factor
	for rows.Next() {
		var f domain.Factor
		var optionalInt int
		var createdAt, updatedAt string
		if err := rows.Scan(&f.ID, &f.ProductID, &f.Name, &optionalInt, &f.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning factor row: %w", err)
		}
		f.IsOptional = intToBool(optionalInt)
		f.CreatedAt = parseTime(createdAt)
		f.UpdatedAt = parseTime(updatedAt)
		factors = append(factors, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating factors: %w", err)
	}
	return factors, nil
}

func (r *SQLiteFactorRepo) Update(ctx context.Context, f *domain.Factor) error {
	query := `UPDATE cpq_factors SET name = ?, is_optional = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		f.Name,
		boolToInt(f.IsOptional),
		f.SortOrder,
		formatTime(f.UpdatedAt),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating factor: %w", err)
	}
	return nil
}

func (r *SQLiteFactorRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_factors WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting factor: %w", err)
	}
	return nil
}
