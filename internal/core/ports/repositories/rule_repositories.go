package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// RuleReader defines read operations for classification rules
type RuleReader interface {
	// FindRuleByID retrieves a specific rule by its unique identifier.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.ClassificationRule, error)

	// ListRules retrieves all rules ordered by priority then insertion order.
	ListRules(ctx context.Context) ([]domain.ClassificationRule, error)

	// ListEnabledRules retrieves enabled rules ordered by priority then
	// insertion order. This is the evaluation order the classifier relies on.
	ListEnabledRules(ctx context.Context) ([]domain.ClassificationRule, error)
}

// RuleWriter defines write operations for classification rules
type RuleWriter interface {
	// SaveRule persists a newly created rule.
	SaveRule(ctx context.Context, rule domain.ClassificationRule) error

	// UpdateRule persists changes to an existing rule.
	UpdateRule(ctx context.Context, rule domain.ClassificationRule) error

	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, ruleID string) error
}

// RuleRepositoryFacade combines all rule-related repository interfaces
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}

// RuleRepositoryWithTx extends RuleRepositoryFacade with transaction capabilities
type RuleRepositoryWithTx interface {
	RuleRepositoryFacade
	TransactionManager

	// UpdateRuleInTx persists changes to an existing rule within a given
	// transaction.
	UpdateRuleInTx(ctx context.Context, tx pgx.Tx, rule domain.ClassificationRule) error
}
