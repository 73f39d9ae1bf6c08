package domain

import (
	"fmt"
	"regexp"
)

// RuleField names the receipt attribute a condition inspects.
type RuleField string

const (
	FieldReceiptType   RuleField = "RECEIPT_TYPE"
	FieldCategory      RuleField = "CATEGORY"
	FieldSubCategory   RuleField = "SUB_CATEGORY"
	FieldMerchant      RuleField = "MERCHANT"
	FieldSeller        RuleField = "SELLER"
	FieldBuyer         RuleField = "BUYER"
	FieldInvoiceCode   RuleField = "INVOICE_CODE"
	FieldInvoiceNumber RuleField = "INVOICE_NUMBER"
	FieldAmount        RuleField = "AMOUNT"
	FieldTotalAmount   RuleField = "TOTAL_AMOUNT"
	FieldTaxAmount     RuleField = "TAX_AMOUNT"
	FieldDepartment    RuleField = "DEPARTMENT"
	FieldProject       RuleField = "PROJECT"
	FieldTags          RuleField = "TAGS"
	FieldOCRText       RuleField = "OCR_TEXT"
)

// ParseRuleField returns the RuleField matching s, or false if unknown.
func ParseRuleField(s string) (RuleField, bool) {
	switch RuleField(s) {
	case FieldReceiptType, FieldCategory, FieldSubCategory, FieldMerchant,
		FieldSeller, FieldBuyer, FieldInvoiceCode, FieldInvoiceNumber,
		FieldAmount, FieldTotalAmount, FieldTaxAmount, FieldDepartment,
		FieldProject, FieldTags, FieldOCRText:
		return RuleField(s), true
	}
	return "", false
}

// RuleOperator is the comparison a condition applies to a field value.
type RuleOperator string

const (
	OperatorEquals      RuleOperator = "EQUALS"
	OperatorNotEquals   RuleOperator = "NOT_EQUALS"
	OperatorContains    RuleOperator = "CONTAINS"
	OperatorNotContains RuleOperator = "NOT_CONTAINS"
	OperatorStartsWith  RuleOperator = "STARTS_WITH"
	OperatorEndsWith    RuleOperator = "ENDS_WITH"
	OperatorGreaterThan RuleOperator = "GREATER_THAN"
	OperatorLessThan    RuleOperator = "LESS_THAN"
	OperatorRegex       RuleOperator = "REGEX"
	OperatorIn          RuleOperator = "IN"
)

// ParseRuleOperator returns the RuleOperator matching s, or false if unknown.
func ParseRuleOperator(s string) (RuleOperator, bool) {
	switch RuleOperator(s) {
	case OperatorEquals, OperatorNotEquals, OperatorContains, OperatorNotContains,
		OperatorStartsWith, OperatorEndsWith, OperatorGreaterThan,
		OperatorLessThan, OperatorRegex, OperatorIn:
		return RuleOperator(s), true
	}
	return "", false
}

// RuleActionType is the effect a matching rule applies to a receipt.
type RuleActionType string

const (
	ActionSetCategory           RuleActionType = "SET_CATEGORY"
	ActionSetSubCategory        RuleActionType = "SET_SUB_CATEGORY"
	ActionSetExpenseType        RuleActionType = "SET_EXPENSE_TYPE"
	ActionSetDepartment         RuleActionType = "SET_DEPARTMENT"
	ActionSetProject            RuleActionType = "SET_PROJECT"
	ActionAppendTag             RuleActionType = "APPEND_TAG"
	ActionArchive               RuleActionType = "ARCHIVE"
	ActionGenerateArchiveNumber RuleActionType = "GENERATE_ARCHIVE_NUMBER"
)

// ParseRuleActionType returns the RuleActionType matching s, or false if unknown.
func ParseRuleActionType(s string) (RuleActionType, bool) {
	switch RuleActionType(s) {
	case ActionSetCategory, ActionSetSubCategory, ActionSetExpenseType,
		ActionSetDepartment, ActionSetProject, ActionAppendTag,
		ActionArchive, ActionGenerateArchiveNumber:
		return RuleActionType(s), true
	}
	return "", false
}

// ClassificationCondition is one predicate of a rule. All of a rule's
// conditions must hold for the rule to match (implicit AND).
type ClassificationCondition struct {
	Field    RuleField    `json:"field"`
	Operator RuleOperator `json:"operator"`
	Value    string       `json:"value"`
}

// ClassificationAction is one effect of a matching rule, applied in order.
type ClassificationAction struct {
	Type  RuleActionType `json:"type"`
	Value string         `json:"value"`
}

// ClassificationRule is a named, ordered, enable-able classification policy.
// Rules are evaluated by ascending Priority; ties resolve by ascending
// SortOrder, which preserves insertion order.
type ClassificationRule struct {
	RuleID     string                    `json:"ruleID"` // Primary Key (UUID)
	Name       string                    `json:"name"`
	Priority   int                       `json:"priority"`
	Enabled    bool                      `json:"enabled"`
	SortOrder  int64                     `json:"sortOrder"`
	Conditions []ClassificationCondition `json:"conditions"`
	Actions    []ClassificationAction    `json:"actions"`
	AuditFields
}

// Validate checks a rule's condition and action literals. Rules are validated
// at save time so malformed enum names or regexes are rejected early;
// evaluation of already-stored rules stays lenient for backward
// compatibility.
func (r *ClassificationRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	for i, cond := range r.Conditions {
		if _, ok := ParseRuleField(string(cond.Field)); !ok {
			return fmt.Errorf("condition %d: unknown field %q", i, cond.Field)
		}
		if _, ok := ParseRuleOperator(string(cond.Operator)); !ok {
			return fmt.Errorf("condition %d: unknown operator %q", i, cond.Operator)
		}
		if cond.Operator == OperatorRegex {
			if _, err := regexp.Compile(cond.Value); err != nil {
				return fmt.Errorf("condition %d: invalid regex %q: %w", i, cond.Value, err)
			}
		}
	}
	for i, action := range r.Actions {
		typ, ok := ParseRuleActionType(string(action.Type))
		if !ok {
			return fmt.Errorf("action %d: unknown action type %q", i, action.Type)
		}
		switch typ {
		case ActionSetCategory:
			if _, ok := ParseReceiptCategory(action.Value); !ok {
				return fmt.Errorf("action %d: unknown category %q", i, action.Value)
			}
		case ActionSetExpenseType:
			if _, ok := ParseReceiptType(action.Value); !ok {
				return fmt.Errorf("action %d: unknown receipt type %q", i, action.Value)
			}
		}
	}
	return nil
}
