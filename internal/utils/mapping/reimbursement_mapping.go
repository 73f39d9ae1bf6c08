package mapping

import (
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/expenso-labs/receipt_workflow_app/internal/models"
)

// ToModelReimbursement converts a domain Reimbursement to a model Reimbursement
func ToModelReimbursement(d domain.Reimbursement) models.Reimbursement {
	return models.Reimbursement{
		ReimbursementID:  d.ReimbursementID,
		Title:            d.Title,
		Applicant:        d.Applicant,
		Department:       d.Department,
		Project:          d.Project,
		BudgetCode:       d.BudgetCode,
		TotalAmount:      d.TotalAmount,
		TaxAmount:        d.TaxAmount,
		AmountWithoutTax: d.AmountWithoutTax,
		ReceiptCount:     d.ReceiptCount,
		Status:           string(d.Status),
		RevisionCount:    d.RevisionCount,
		SubmittedAt:      d.SubmittedAt,
		ApprovedAt:       d.ApprovedAt,
		RejectedAt:       d.RejectedAt,
		CancelledAt:      d.CancelledAt,
		CurrentApprover:  d.CurrentApprover,
		ApprovalComment:  d.ApprovalComment,
		RejectionReason:  d.RejectionReason,
		RevisionComment:  d.RevisionComment,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReimbursement converts a model Reimbursement to a domain Reimbursement
func ToDomainReimbursement(m models.Reimbursement) domain.Reimbursement {
	return domain.Reimbursement{
		ReimbursementID:  m.ReimbursementID,
		Title:            m.Title,
		Applicant:        m.Applicant,
		Department:       m.Department,
		Project:          m.Project,
		BudgetCode:       m.BudgetCode,
		TotalAmount:      m.TotalAmount,
		TaxAmount:        m.TaxAmount,
		AmountWithoutTax: m.AmountWithoutTax,
		ReceiptCount:     m.ReceiptCount,
		Status:           domain.ReimbursementStatus(m.Status),
		RevisionCount:    m.RevisionCount,
		SubmittedAt:      m.SubmittedAt,
		ApprovedAt:       m.ApprovedAt,
		RejectedAt:       m.RejectedAt,
		CancelledAt:      m.CancelledAt,
		CurrentApprover:  m.CurrentApprover,
		ApprovalComment:  m.ApprovalComment,
		RejectionReason:  m.RejectionReason,
		RevisionComment:  m.RevisionComment,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReimbursementSlice converts a slice of model Reimbursements to domain Reimbursements
func ToDomainReimbursementSlice(ms []models.Reimbursement) []domain.Reimbursement {
	ds := make([]domain.Reimbursement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReimbursement(m)
	}
	return ds
}
