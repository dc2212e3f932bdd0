package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
)

// productColumns is the canonical SELECT column list for cpq_products.
const productColumns = `id, version_id, name, code, sort_order, created_at, updated_at`

// SQLiteProductRepo implements ProductRepo on a SQLite connection or
// transaction.
type SQLiteProductRepo struct {
	db db.DBTX
}

// NewSQLiteProductRepo creates a new SQLiteProductRepo.
func NewSQLiteProductRepo(conn db.DBTX) *SQLiteProductRepo {
	return &SQLiteProductRepo{db: conn}
}

func (r *SQLiteProductRepo) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO cpq_products (version_id, name, code, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.VersionID,
		p.Name,
		p.Code,
		p.SortOrder,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", constraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading product id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM cpq_products WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var p domain.Product
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.VersionID, &p.Name, &p.Code, &p.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (r *SQLiteProductRepo) ListByVersion(ctx context.Context, versionID int64) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM cpq_products WHERE version_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.VersionID, &p.Name, &p.Code, &p.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func (r *SQLiteProductRepo) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE cpq_products SET name = ?, code = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Code,
		p.SortOrder,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", constraintErr(err))
	}
	return nil
}

func (r *SQLiteProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}
