package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/expenso-labs/receipt_workflow_app/internal/models"
)

// ToModelRule converts a domain ClassificationRule to its model form,
// serialising conditions and actions to JSON documents.
func ToModelRule(d domain.ClassificationRule) (models.ClassificationRule, error) {
	conditions, err := json.Marshal(d.Conditions)
	if err != nil {
		return models.ClassificationRule{}, fmt.Errorf("failed to marshal rule conditions: %w", err)
	}
	actions, err := json.Marshal(d.Actions)
	if err != nil {
		return models.ClassificationRule{}, fmt.Errorf("failed to marshal rule actions: %w", err)
	}
	return models.ClassificationRule{
		RuleID:      d.RuleID,
		Name:        d.Name,
		Priority:    d.Priority,
		Enabled:     d.Enabled,
		SortOrder:   d.SortOrder,
		Conditions:  conditions,
		Actions:     actions,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainRule converts a model ClassificationRule to its domain form.
func ToDomainRule(m models.ClassificationRule) (domain.ClassificationRule, error) {
	var conditions []domain.ClassificationCondition
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &conditions); err != nil {
			return domain.ClassificationRule{}, fmt.Errorf("failed to unmarshal conditions for rule %s: %w", m.RuleID, err)
		}
	}
	var actions []domain.ClassificationAction
	if len(m.Actions) > 0 {
		if err := json.Unmarshal(m.Actions, &actions); err != nil {
			return domain.ClassificationRule{}, fmt.Errorf("failed to unmarshal actions for rule %s: %w", m.RuleID, err)
		}
	}
	return domain.ClassificationRule{
		RuleID:      m.RuleID,
		Name:        m.Name,
		Priority:    m.Priority,
		Enabled:     m.Enabled,
		SortOrder:   m.SortOrder,
		Conditions:  conditions,
		Actions:     actions,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}
