package services

import (
	"context"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// ComplianceSvcFacade runs the compliance pipeline over a reimbursement and
// its receipts. It never fails: each check appends to the shared issue and
// warning lists and no check's outcome stops the others.
type ComplianceSvcFacade interface {
	ValidateReimbursement(ctx context.Context, reimbursement *domain.Reimbursement, receipts []domain.Receipt) *domain.ValidationResult
}
