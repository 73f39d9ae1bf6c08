package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	"github.com/expenso-labs/receipt_workflow_app/internal/models"
	"github.com/expenso-labs/receipt_workflow_app/internal/utils/mapping"
)

const ruleColumns = `rule_id, name, priority, enabled, sort_order, conditions, actions,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRuleRepository struct {
	BaseRepository
}

// newPgxRuleRepository creates a new repository for classification rules.
func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryWithTx {
	return &PgxRuleRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.RuleRepositoryWithTx = (*PgxRuleRepository)(nil)

func scanRule(row pgx.Row) (models.ClassificationRule, error) {
	var m models.ClassificationRule
	err := row.Scan(
		&m.RuleID, &m.Name, &m.Priority, &m.Enabled, &m.SortOrder, &m.Conditions, &m.Actions,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveRule inserts a new rule.
func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.ClassificationRule) error {
	m, err := mapping.ToModelRule(rule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO classification_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.RuleID, m.Name, m.Priority, m.Enabled, m.SortOrder, m.Conditions, m.Actions,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: rule with ID %s already exists", apperrors.ErrDuplicate, m.RuleID)
		}
		return fmt.Errorf("failed to save rule %s: %w", m.RuleID, err)
	}
	return nil
}

// FindRuleByID retrieves a rule by its ID.
func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ClassificationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM classification_rules WHERE rule_id = $1;`

	m, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rule by ID %s: %w", ruleID, err)
	}

	d, err := mapping.ToDomainRule(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxRuleRepository) listRules(ctx context.Context, enabledOnly bool) ([]domain.ClassificationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM classification_rules`
	if enabledOnly {
		query += ` WHERE enabled = TRUE`
	}
	// Evaluation order: priority ascending, ties by insertion order.
	query += ` ORDER BY priority, sort_order;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.ClassificationRule{}
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		d, err := mapping.ToDomainRule(m)
		if err != nil {
			return nil, err
		}
		rules = append(rules, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule rows: %w", err)
	}
	return rules, nil
}

// ListRules retrieves all rules in evaluation order.
func (r *PgxRuleRepository) ListRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	return r.listRules(ctx, false)
}

// ListEnabledRules retrieves enabled rules in evaluation order.
func (r *PgxRuleRepository) ListEnabledRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	return r.listRules(ctx, true)
}

// UpdateRule persists changes to an existing rule.
func (r *PgxRuleRepository) UpdateRule(ctx context.Context, rule domain.ClassificationRule) error {
	return r.updateRule(ctx, r.Pool, rule)
}

// UpdateRuleInTx persists changes to an existing rule within a caller-owned
// transaction.
func (r *PgxRuleRepository) UpdateRuleInTx(ctx context.Context, tx pgx.Tx, rule domain.ClassificationRule) error {
	return r.updateRule(ctx, tx, rule)
}

func (r *PgxRuleRepository) updateRule(ctx context.Context, q querier, rule domain.ClassificationRule) error {
	m, err := mapping.ToModelRule(rule)
	if err != nil {
		return err
	}

	query := `
		UPDATE classification_rules
		SET name = $2, priority = $3, enabled = $4, conditions = $5, actions = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE rule_id = $1;
	`
	cmdTag, err := q.Exec(ctx, query,
		m.RuleID, m.Name, m.Priority, m.Enabled, m.Conditions, m.Actions,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update rule %s: %w", m.RuleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRule removes a rule.
func (r *PgxRuleRepository) DeleteRule(ctx context.Context, ruleID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM classification_rules WHERE rule_id = $1;`, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
