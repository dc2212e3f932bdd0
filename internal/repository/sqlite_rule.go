package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
)

// ruleColumns is the canonical SELECT column list for cpq_rules.
const ruleColumns = `id, cost_id, condition, action, created_at, updated_at`

// SQLiteRuleRepo implements RuleRepo on a SQLite connection or
// transaction.
type SQLiteRuleRepo struct {
	db db.DBTX
}

// NewSQLiteRuleRepo creates a new SQLiteRuleRepo.
func NewSQLiteRuleRepo(conn db.DBTX) *SQLiteRuleRepo {
	return &SQLiteRuleRepo{db: conn}
}

func (r *SQLiteRuleRepo) Create(ctx context.Context, rule *domain.Rule) error {
	query := `INSERT INTO cpq_rules (cost_id, condition, action, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		rule.CostID,
		rule.Condition,
		rule.Action,
		formatTime(rule.CreatedAt),
		formatTime(rule.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting rule: %w", constraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading rule id: %w", err)
	}
	rule.ID = id
	return nil
}

func (r *SQLiteRuleRepo) GetByID(ctx context.Context, id int64) (*domain.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM cpq_rules WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var rule domain.Rule
	var createdAt, updatedAt string
	err := row.Scan(&rule.ID, &rule.CostID, &rule.Condition, &rule.Action, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("rule: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning rule: %w", err)
	}
	rule.CreatedAt = parseTime(createdAt)
	rule.UpdatedAt = parseTime(updatedAt)
	return &rule, nil
}

func (r *SQLiteRuleRepo) ListByCost(ctx context.Context, costID int64) ([]*domain.Rule, error) {
	// Insertion order. First-match-wins depends on it.
	query := `SELECT ` + ruleColumns + ` FROM cpq_rules WHERE cost_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, costID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.Rule
	for rows.Next() {
		var rule domain.Rule
		var createdAt, updatedAt string
		if err := rows.Scan(&rule.ID, &rule.CostID, &rule.Condition, &rule.Action, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule row: %w", err)
		}
		rule.CreatedAt = parseTime(createdAt)
		rule.UpdatedAt = parseTime(updatedAt)
		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}
	return rules, nil
}

func (r *SQLiteRuleRepo) Update(ctx context.Context, rule *domain.Rule) error {
	query := `UPDATE cpq_rules SET condition = ?, action = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, rule.Condition, rule.Action, formatTime(rule.UpdatedAt), rule.ID)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}
	return nil
}

func (r *SQLiteRuleRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_rules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}
	return nil
}

func (r *SQLiteRuleRepo) DeleteByCost(ctx context.Context, costID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cpq_rules WHERE cost_id = ?`, costID); err != nil {
		return fmt.Errorf("deleting rules by cost: %w", err)
	}
	return nil
}
