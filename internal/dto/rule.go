package dto

import (
	"time"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// ConditionRequest is one condition of a rule create/update payload.
type ConditionRequest struct {
	Field    string `json:"field" binding:"required"`
	Operator string `json:"operator" binding:"required"`
	Value    string `json:"value"`
}

// ActionRequest is one action of a rule create/update payload.
type ActionRequest struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value"`
}

// CreateRuleRequest defines the data needed to create a classification rule.
// An empty condition list is legal and produces a catch-all rule.
type CreateRuleRequest struct {
	Name       string             `json:"name" binding:"required"`
	Priority   int                `json:"priority"`
	Enabled    *bool              `json:"enabled,omitempty"` // defaults to true
	Conditions []ConditionRequest `json:"conditions"`
	Actions    []ActionRequest    `json:"actions"`
}

// UpdateRuleRequest replaces a rule's definition.
type UpdateRuleRequest struct {
	Name       string             `json:"name" binding:"required"`
	Priority   int                `json:"priority"`
	Conditions []ConditionRequest `json:"conditions"`
	Actions    []ActionRequest    `json:"actions"`
}

// ToggleRuleRequest enables or disables a rule.
type ToggleRuleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// RulePriorityAssignment pins a rule to an explicit priority during reorder.
type RulePriorityAssignment struct {
	RuleID   string `json:"ruleID" binding:"required"`
	Priority int    `json:"priority"`
}

// ReorderRulesRequest reassigns priorities for a set of rules.
type ReorderRulesRequest struct {
	Assignments []RulePriorityAssignment `json:"assignments" binding:"required,min=1,dive"`
}

// RuleResponse is the transport representation of a classification rule.
type RuleResponse struct {
	RuleID     string             `json:"ruleID"`
	Name       string             `json:"name"`
	Priority   int                `json:"priority"`
	Enabled    bool               `json:"enabled"`
	Conditions []ConditionRequest `json:"conditions"`
	Actions    []ActionRequest    `json:"actions"`
	CreatedAt  time.Time          `json:"createdAt"`
	CreatedBy  string             `json:"createdBy"`
}

// ToRuleResponse converts a domain.ClassificationRule to its transport representation.
func ToRuleResponse(rule *domain.ClassificationRule) RuleResponse {
	conditions := make([]ConditionRequest, len(rule.Conditions))
	for i, cond := range rule.Conditions {
		conditions[i] = ConditionRequest{
			Field:    string(cond.Field),
			Operator: string(cond.Operator),
			Value:    cond.Value,
		}
	}
	actions := make([]ActionRequest, len(rule.Actions))
	for i, action := range rule.Actions {
		actions[i] = ActionRequest{
			Type:  string(action.Type),
			Value: action.Value,
		}
	}
	return RuleResponse{
		RuleID:     rule.RuleID,
		Name:       rule.Name,
		Priority:   rule.Priority,
		Enabled:    rule.Enabled,
		Conditions: conditions,
		Actions:    actions,
		CreatedAt:  rule.CreatedAt,
		CreatedBy:  rule.CreatedBy,
	}
}
