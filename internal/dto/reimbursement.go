package dto

import (
	"time"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReimbursementRequest defines the data needed to create a
// reimbursement in DRAFT state. Listed receipts are linked at creation and
// initial totals are computed from them.
type CreateReimbursementRequest struct {
	Title      string   `json:"title" binding:"required"`
	Applicant  string   `json:"applicant" binding:"required"`
	Department string   `json:"department"`
	Project    string   `json:"project"`
	BudgetCode string   `json:"budgetCode"`
	ReceiptIDs []string `json:"receiptIDs"`
}

// ApprovalActionRequest carries the comment of an approve/return action.
type ApprovalActionRequest struct {
	Comment string `json:"comment"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReimbursementResponse is the transport representation of a reimbursement.
type ReimbursementResponse struct {
	ReimbursementID  string          `json:"reimbursementID"`
	Title            string          `json:"title"`
	Applicant        string          `json:"applicant"`
	Department       string          `json:"department"`
	Project          string          `json:"project"`
	BudgetCode       string          `json:"budgetCode"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	AmountWithoutTax decimal.Decimal `json:"amountWithoutTax"`
	ReceiptCount     int             `json:"receiptCount"`
	Status           string          `json:"status"`
	RevisionCount    int             `json:"revisionCount"`
	SubmittedAt      *time.Time      `json:"submittedAt,omitempty"`
	ApprovedAt       *time.Time      `json:"approvedAt,omitempty"`
	RejectedAt       *time.Time      `json:"rejectedAt,omitempty"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	CurrentApprover  string          `json:"currentApprover,omitempty"`
	ApprovalComment  string          `json:"approvalComment,omitempty"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	RevisionComment  string          `json:"revisionComment,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToReimbursementResponse converts a domain.Reimbursement to its transport representation.
func ToReimbursementResponse(r *domain.Reimbursement) ReimbursementResponse {
	return ReimbursementResponse{
		ReimbursementID:  r.ReimbursementID,
		Title:            r.Title,
		Applicant:        r.Applicant,
		Department:       r.Department,
		Project:          r.Project,
		BudgetCode:       r.BudgetCode,
		TotalAmount:      r.TotalAmount,
		TaxAmount:        r.TaxAmount,
		AmountWithoutTax: r.AmountWithoutTax,
		ReceiptCount:     r.ReceiptCount,
		Status:           string(r.Status),
		RevisionCount:    r.RevisionCount,
		SubmittedAt:      r.SubmittedAt,
		ApprovedAt:       r.ApprovedAt,
		RejectedAt:       r.RejectedAt,
		CancelledAt:      r.CancelledAt,
		CurrentApprover:  r.CurrentApprover,
		ApprovalComment:  r.ApprovalComment,
		RejectionReason:  r.RejectionReason,
		RevisionComment:  r.RevisionComment,
		CreatedAt:        r.CreatedAt,
	}
}

// ListReimbursementsResponse wraps a page of reimbursements with the
// next-page token.
type ListReimbursementsResponse struct {
	Reimbursements []ReimbursementResponse `json:"reimbursements"`
	NextToken      *string                 `json:"nextToken,omitempty"`
}
