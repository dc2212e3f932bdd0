package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
)

// versionColumns is the canonical SELECT column list for cpq_versions.
const versionColumns = `id, name, uuid, is_locked, is_active, created_at, updated_at`

// SQLiteVersionRepo implements VersionRepo on a SQLite connection or
// transaction.
type SQLiteVersionRepo struct {
	db db.DBTX
}

// NewSQLiteVersionRepo creates a new SQLiteVersionRepo.
func NewSQLiteVersionRepo(conn db.DBTX) *SQLiteVersionRepo {
	return &SQLiteVersionRepo{db: conn}
}

func (r *SQLiteVersionRepo) Create(ctx context.Context, v *domain.Version) error {
	query := `INSERT INTO cpq_versions (name, uuid, is_locked, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		v.Name,
		v.UUID,
		boolToInt(v.IsLocked),
		boolToInt(v.IsActive),
		formatTime(v.CreatedAt),
		formatTime(v.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting version: %w", constraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading version id: %w", err)
	}
	v.ID = id
	return nil
}

func (r *SQLiteVersionRepo) GetByID(ctx context.Context, id int64) (*domain.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM cpq_versions WHERE id = ?`
	return r.scanVersion(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteVersionRepo) GetByUUID(ctx context.Context, uuid string) (*domain.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM cpq_versions WHERE uuid = ?`
	return r.scanVersion(r.db.QueryRowContext(ctx, query, uuid))
}

func (r *SQLiteVersionRepo) List(ctx context.Context, page, perPage int) (*VersionPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cpq_versions`).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting versions: %w", err)
	}

	query := `SELECT ` + versionColumns + ` FROM cpq_versions ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.Version
	for rows.Next() {
		v, err := scanVersionRow(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating versions: %w", err)
	}

	return &VersionPage{Versions: versions, Total: total, Page: page, PerPage: perPage}, nil
}

func (r *SQLiteVersionRepo) Update(ctx context.Context, v *domain.Version) error {
	query := `UPDATE cpq_versions SET name = ?, uuid = ?, is_locked = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		v.Name,
		v.UUID,
		boolToInt(v.IsLocked),
		boolToInt(v.IsActive),
		formatTime(v.UpdatedAt),
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating version: %w", constraintErr(err))
	}
	return nil
}

func (r *SQLiteVersionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_versions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting version: %w", err)
	}
	return nil
}

func (r *SQLiteVersionRepo) scanVersion(row *sql.Row) (*domain.Version, error) {
	var v domain.Version
	var lockedInt, activeInt int
	var createdAt, updatedAt string

	err := row.Scan(&v.ID, &v.Name, &v.UUID, &lockedInt, &activeInt, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("version: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning version: %w", err)
	}

	v.IsLocked = intToBool(lockedInt)
	v.IsActive = intToBool(activeInt)
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return &v, nil
}

func scanVersionRow(rows *sql.Rows) (*domain.Version, error) {
	var v domain.Version
	var lockedInt, activeInt int
	var createdAt, updatedAt string

	if err := rows.Scan(&v.ID, &v.Name, &v.UUID, &lockedInt, &activeInt, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning version row: %w", err)
	}

	v.IsLocked = intToBool(lockedInt)
	v.IsActive = intToBool(activeInt)
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return &v, nil
}
