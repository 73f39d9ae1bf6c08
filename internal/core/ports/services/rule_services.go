package services

import (
	"context"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
)

// RuleReaderSvc defines read operations for classification rules
type RuleReaderSvc interface {
	// GetRuleByID retrieves a specific rule by its ID.
	GetRuleByID(ctx context.Context, ruleID string) (*domain.ClassificationRule, error)

	// ListRules retrieves all rules in evaluation order.
	ListRules(ctx context.Context) ([]domain.ClassificationRule, error)
}

// RuleWriterSvc defines write operations for classification rules
type RuleWriterSvc interface {
	// CreateRule validates and persists a new rule.
	CreateRule(ctx context.Context, req dto.CreateRuleRequest, creatorUserID string) (*domain.ClassificationRule, error)

	// UpdateRule validates and persists changes to a rule.
	UpdateRule(ctx context.Context, ruleID string, req dto.UpdateRuleRequest, updaterUserID string) (*domain.ClassificationRule, error)

	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, ruleID string) error

	// ToggleRule enables or disables a rule.
	ToggleRule(ctx context.Context, ruleID string, enabled bool, updaterUserID string) (*domain.ClassificationRule, error)

	// ReorderRules reassigns rule priorities explicitly.
	ReorderRules(ctx context.Context, req dto.ReorderRulesRequest, updaterUserID string) error
}

// RuleSvcFacade combines all rule-related service interfaces
type RuleSvcFacade interface {
	RuleReaderSvc
	RuleWriterSvc
}
