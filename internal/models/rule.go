package models

// ClassificationRule is the database representation of a classification rule.
// Conditions and Actions are stored as JSONB documents.
type ClassificationRule struct {
	RuleID     string `db:"rule_id"`
	Name       string `db:"name"`
	Priority   int    `db:"priority"`
	Enabled    bool   `db:"enabled"`
	SortOrder  int64  `db:"sort_order"`
	Conditions []byte `db:"conditions"`
	Actions    []byte `db:"actions"`
	AuditFields
}
