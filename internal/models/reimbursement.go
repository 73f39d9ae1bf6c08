package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reimbursement is the database representation of a reimbursement request.
type Reimbursement struct {
	ReimbursementID  string          `db:"reimbursement_id"`
	Title            string          `db:"title"`
	Applicant        string          `db:"applicant"`
	Department       string          `db:"department"`
	Project          string          `db:"project"`
	BudgetCode       string          `db:"budget_code"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	TaxAmount        decimal.Decimal `db:"tax_amount"`
	AmountWithoutTax decimal.Decimal `db:"amount_without_tax"`
	ReceiptCount     int             `db:"receipt_count"`
	Status           string          `db:"status"`
	RevisionCount    int             `db:"revision_count"`
	SubmittedAt      *time.Time      `db:"submitted_at"`
	ApprovedAt       *time.Time      `db:"approved_at"`
	RejectedAt       *time.Time      `db:"rejected_at"`
	CancelledAt      *time.Time      `db:"cancelled_at"`
	CurrentApprover  string          `db:"current_approver"`
	ApprovalComment  string          `db:"approval_comment"`
	RejectionReason  string          `db:"rejection_reason"`
	RevisionComment  string          `db:"revision_comment"`
	AuditFields
}
