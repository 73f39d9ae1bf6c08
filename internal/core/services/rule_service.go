package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// ruleService manages classification rule definitions. Rules are validated
// on every write so the classifier can evaluate stored rules leniently.
type ruleService struct {
	ruleRepo portsrepo.RuleRepositoryWithTx
	now      func() time.Time
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo portsrepo.RuleRepositoryWithTx) portssvc.RuleSvcFacade {
	return &ruleService{
		ruleRepo: ruleRepo,
		now:      time.Now,
	}
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

// GetRuleByID retrieves a rule.
func (s *ruleService) GetRuleByID(ctx context.Context, ruleID string) (*domain.ClassificationRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule %s: %w", ruleID, err)
	}
	return rule, nil
}

// ListRules retrieves all rules in evaluation order.
func (s *ruleService) ListRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	rules, err := s.ruleRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	if rules == nil {
		rules = []domain.ClassificationRule{}
	}
	return rules, nil
}

func toConditions(reqs []dto.ConditionRequest) []domain.ClassificationCondition {
	conditions := make([]domain.ClassificationCondition, len(reqs))
	for i, req := range reqs {
		conditions[i] = domain.ClassificationCondition{
			Field:    domain.RuleField(req.Field),
			Operator: domain.RuleOperator(req.Operator),
			Value:    req.Value,
		}
	}
	return conditions
}

func toActions(reqs []dto.ActionRequest) []domain.ClassificationAction {
	actions := make([]domain.ClassificationAction, len(reqs))
	for i, req := range reqs {
		actions[i] = domain.ClassificationAction{
			Type:  domain.RuleActionType(req.Type),
			Value: req.Value,
		}
	}
	return actions
}

// CreateRule validates and persists a new rule. SortOrder is taken from the
// creation instant so equal-priority rules keep insertion order.
func (s *ruleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, creatorUserID string) (*domain.ClassificationRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.now().UTC()

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule := domain.ClassificationRule{
		RuleID:     uuid.NewString(),
		Name:       req.Name,
		Priority:   req.Priority,
		Enabled:    enabled,
		SortOrder:  now.UnixNano(),
		Conditions: toConditions(req.Conditions),
		Actions:    toActions(req.Actions),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	logger.Info("Classification rule created",
		slog.String("rule_id", rule.RuleID),
		slog.String("name", rule.Name),
		slog.Int("priority", rule.Priority))
	return &rule, nil
}

// UpdateRule validates and replaces a rule's definition. SortOrder and audit
// creation fields are preserved.
func (s *ruleService) UpdateRule(ctx context.Context, ruleID string, req dto.UpdateRuleRequest, updaterUserID string) (*domain.ClassificationRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule %s: %w", ruleID, err)
	}

	rule.Name = req.Name
	rule.Priority = req.Priority
	rule.Conditions = toConditions(req.Conditions)
	rule.Actions = toActions(req.Actions)
	rule.LastUpdatedAt = s.now().UTC()
	rule.LastUpdatedBy = updaterUserID

	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		return nil, fmt.Errorf("failed to update rule %s: %w", ruleID, err)
	}
	return rule, nil
}

// DeleteRule removes a rule.
func (s *ruleService) DeleteRule(ctx context.Context, ruleID string) error {
	if err := s.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", ruleID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Classification rule deleted", slog.String("rule_id", ruleID))
	return nil
}

// ToggleRule enables or disables a rule without touching its definition.
func (s *ruleService) ToggleRule(ctx context.Context, ruleID string, enabled bool, updaterUserID string) (*domain.ClassificationRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule %s: %w", ruleID, err)
	}

	rule.Enabled = enabled
	rule.LastUpdatedAt = s.now().UTC()
	rule.LastUpdatedBy = updaterUserID

	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		return nil, fmt.Errorf("failed to toggle rule %s: %w", ruleID, err)
	}
	return rule, nil
}

// ReorderRules reassigns explicit priorities. Every referenced rule must
// exist; a missing rule fails the whole request before any write, and the
// writes themselves share one transaction so the rule set is never left
// half-reordered.
func (s *ruleService) ReorderRules(ctx context.Context, req dto.ReorderRulesRequest, updaterUserID string) error {
	now := s.now().UTC()

	rules := make([]*domain.ClassificationRule, 0, len(req.Assignments))
	for _, assignment := range req.Assignments {
		rule, err := s.ruleRepo.FindRuleByID(ctx, assignment.RuleID)
		if err != nil {
			return fmt.Errorf("failed to get rule %s: %w", assignment.RuleID, err)
		}
		rule.Priority = assignment.Priority
		rule.LastUpdatedAt = now
		rule.LastUpdatedBy = updaterUserID
		rules = append(rules, rule)
	}

	tx, err := s.ruleRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rule reorder: %w", err)
	}
	defer s.ruleRepo.Rollback(ctx, tx) // no-op once committed

	for _, rule := range rules {
		if err := s.ruleRepo.UpdateRuleInTx(ctx, tx, *rule); err != nil {
			return fmt.Errorf("failed to update rule %s: %w", rule.RuleID, err)
		}
	}
	if err := s.ruleRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit rule reorder: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Classification rules reordered",
		slog.Int("count", len(rules)))
	return nil
}
