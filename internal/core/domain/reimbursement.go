package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReimbursementStatus is the approval-lifecycle state of a reimbursement.
type ReimbursementStatus string

const (
	StatusDraft            ReimbursementStatus = "DRAFT"
	StatusSubmitted        ReimbursementStatus = "SUBMITTED"
	StatusApproved         ReimbursementStatus = "APPROVED"
	StatusRejected         ReimbursementStatus = "REJECTED"
	StatusRevisionRequired ReimbursementStatus = "REVISION_REQUIRED"
	StatusCancelled        ReimbursementStatus = "CANCELLED"
)

// Reimbursement aggregates receipts submitted for approval. Its totals are
// computed from linked receipts at creation time and maintained
// incrementally afterwards; a mismatch against the receipt sum is reported
// as a compliance warning, not a hard violation, because manual overrides
// are allowed.
type Reimbursement struct {
	ReimbursementID  string              `json:"reimbursementID"` // Primary Key (UUID)
	Title            string              `json:"title"`
	Applicant        string              `json:"applicant"`
	Department       string              `json:"department"`
	Project          string              `json:"project"`
	BudgetCode       string              `json:"budgetCode"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	TaxAmount        decimal.Decimal     `json:"taxAmount"`
	AmountWithoutTax decimal.Decimal     `json:"amountWithoutTax"`
	ReceiptCount     int                 `json:"receiptCount"`
	Status           ReimbursementStatus `json:"status"`
	RevisionCount    int                 `json:"revisionCount"`
	SubmittedAt      *time.Time          `json:"submittedAt,omitempty"`
	ApprovedAt       *time.Time          `json:"approvedAt,omitempty"`
	RejectedAt       *time.Time          `json:"rejectedAt,omitempty"`
	CancelledAt      *time.Time          `json:"cancelledAt,omitempty"`
	CurrentApprover  string              `json:"currentApprover"`
	ApprovalComment  string              `json:"approvalComment"`
	RejectionReason  string              `json:"rejectionReason"`
	RevisionComment  string              `json:"revisionComment"`
	AuditFields
}

// StatusChangeEvent is emitted to the notification collaborator whenever a
// reimbursement transitions state.
type StatusChangeEvent struct {
	ReimbursementID string              `json:"reimbursementID"`
	Status          ReimbursementStatus `json:"status"`
	Actor           string              `json:"actor"`
	Comment         string              `json:"comment,omitempty"`
	OccurredAt      time.Time           `json:"occurredAt"`
}
