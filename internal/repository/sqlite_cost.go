package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
)

// costColumns is the canonical SELECT column list for cpq_costs.
const costColumns = `id, product_id, title, code, sort_order, created_at, updated_at`

// SQLiteCostRepo implements CostRepo on a SQLite connection or
// transaction.
type SQLiteCostRepo struct {
	db db.DBTX
}

// NewSQLiteCostRepo creates a new SQLiteCostRepo.
func NewSQLiteCostRepo(conn db.DBTX) *SQLiteCostRepo {
	return &SQLiteCostRepo{db: conn}
}

func (r *SQLiteCostRepo) Create(ctx context.Context, c *domain.Cost) error {
	query := `INSERT INTO cpq_costs (product_id, title, code, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		c.ProductID,
		c.Title,
		c.Code,
		c.SortOrder,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting cost: %w", constraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading cost id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *SQLiteCostRepo) GetByID(ctx context.Context, id int64) (*domain.Cost, error) {
	query := `SELECT ` + costColumns + ` FROM cpq_costs WHERE id = ?`
	return r.scanCost(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteCostRepo) GetByCode(ctx context.Context, productID int64, code string) (*domain.Cost, error) {
	query := `SELECT ` + costColumns + ` FROM cpq_costs WHERE product_id = ? AND code = ?`
	return r.scanCost(r.db.QueryRowContext(ctx, query, productID, code))
}

func (r *SQLiteCostRepo) ListByProduct(ctx context.Context, productID int64) ([]*domain.Cost, error) {
	// sort_order then id: the quote engine depends on this being a
	// total, deterministic order.
	query := `SELECT ` + costColumns + ` FROM cpq_costs WHERE product_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing costs: %w", err)
	}
	defer rows.Close()

	var costs []*domain.Cost
	for rows.Next() {
		var c domain.Cost
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Title, &c.Code, &c.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning cost row: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		costs = append(costs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating costs: %w", err)
	}
	return costs, nil
}

func (r *SQLiteCostRepo) Update(ctx context.Context, c *domain.Cost) error {
	query := `UPDATE cpq_costs SET title = ?, code = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		c.Title,
		c.Code,
		c.SortOrder,
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating cost: %w", constraintErr(err))
	}
	return nil
}

func (r *SQLiteCostRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_costs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting cost: %w", err)
	}
	return nil
}

func (r *SQLiteCostRepo) scanCost(row *sql.Row) (*domain.Cost, error) {
	var c domain.Cost
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.ProductID, &c.Title, &c.Code, &c.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cost: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning cost: %w", err)
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
