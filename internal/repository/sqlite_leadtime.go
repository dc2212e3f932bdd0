package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
)

// leadtimeColumns is the canonical SELECT column list for cpq_leadtimes.
const leadtimeColumns = `id, product_id, title, condition, days, sort_order, created_at, updated_at`

// SQLiteLeadtimeRepo implements LeadtimeRepo on a SQLite connection or
// transaction.
type SQLiteLeadtimeRepo struct {
	db db.DBTX
}

// NewSQLiteLeadtimeRepo creates a new SQLiteLeadtimeRepo.
func NewSQLiteLeadtimeRepo(conn db.DBTX) *SQLiteLeadtimeRepo {
	return &SQLiteLeadtimeRepo{db: conn}
}

func (r *SQLiteLeadtimeRepo) Create(ctx context.Context, l *domain.Leadtime) error {
	query := `INSERT INTO cpq_leadtimes (product_id, title, condition, days, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		l.ProductID,
		l.Title,
		l.Condition,
		l.Days,
		l.SortOrder,
		formatTime(l.CreatedAt),
		formatTime(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting leadtime: %w", constraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading leadtime id: %w", err)
	}
	l.ID = id
	return nil
}

func (r *SQLiteLeadtimeRepo) GetByID(ctx context.Context, id int64) (*domain.Leadtime, error) {
	query := `SELECT ` + leadtimeColumns + ` FROM cpq_leadtimes WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var l domain.Leadtime
	var createdAt, updatedAt string
	err := row.Scan(&l.ID, &l.ProductID, &l.Title, &l.Condition, &l.Days, &l.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("leadtime: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning leadtime: %w", err)
	}
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return &l, nil
}

func (r *SQLiteLeadtimeRepo) ListByProduct(ctx context.Context, productID int64) ([]*domain.Leadtime, error) {
	query := `SELECT ` + leadtimeColumns + ` FROM cpq_leadtimes WHERE product_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing leadtimes: %w", err)
	}
	defer rows.Close()

	var leadtimes []*domain.Leadtime
	for rows.Next() {
		var l domain.Leadtime
		var createdAt, updatedAt string
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Title, &l.Condition, &l.Days, &l.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning leadtime row: %w", err)
		}
		l.CreatedAt = parseTime(createdAt)
		l.UpdatedAt = parseTime(updatedAt)
		leadtimes = append(leadtimes, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leadtimes: %w", err)
	}
	return leadtimes, nil
}

func (r *SQLiteLeadtimeRepo) Update(ctx context.Context, l *domain.Leadtime) error {
	query := `UPDATE cpq_leadtimes SET title = ?, condition = ?, days = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		l.Title,
		l.Condition,
		l.Days,
		l.SortOrder,
		formatTime(l.UpdatedAt),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating leadtime: %w", err)
	}
	return nil
}

func (r *SQLiteLeadtimeRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_leadtimes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting leadtime: %w", err)
	}
	return nil
}

func (r *SQLiteLeadtimeRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_leadtimes WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("deleting leadtimes by product: %w", err)
	}
	return nil
}
