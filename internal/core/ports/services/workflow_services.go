package services

import (
	"context"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
)

// WorkflowReaderSvc defines read operations for reimbursements
type WorkflowReaderSvc interface {
	// GetReimbursementByID retrieves a specific reimbursement by its ID.
	GetReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)

	// ListReimbursements retrieves a paginated list of reimbursements.
	ListReimbursements(ctx context.Context, limit int, nextToken *string) ([]domain.Reimbursement, *string, error)

	// Validate runs the compliance pipeline without changing state.
	Validate(ctx context.Context, reimbursementID string) (*domain.ValidationResult, error)
}

// WorkflowWriterSvc defines the state transitions of the reimbursement
// lifecycle. Invalid transitions return apperrors.ErrInvalidTransition and
// leave state unchanged.
type WorkflowWriterSvc interface {
	// CreateReimbursement creates a reimbursement in DRAFT, linking the given
	// receipts and computing initial totals from them.
	CreateReimbursement(ctx context.Context, req dto.CreateReimbursementRequest, creatorUserID string) (*domain.Reimbursement, error)

	// SubmitForApproval moves DRAFT or REVISION_REQUIRED to SUBMITTED after
	// the compliance gate passes. Any ERROR-severity issue fails the
	// transition with an apperrors.ValidationFailedError.
	SubmitForApproval(ctx context.Context, reimbursementID, actorUserID string) (*domain.Reimbursement, error)

	// Approve moves SUBMITTED to APPROVED, recording approver and comment.
	Approve(ctx context.Context, reimbursementID, approverUserID, comment string) (*domain.Reimbursement, error)

	// Reject moves SUBMITTED to REJECTED. A reason is required.
	Reject(ctx context.Context, reimbursementID, rejectorUserID, reason string) (*domain.Reimbursement, error)

	// ReturnForRevision moves SUBMITTED to REVISION_REQUIRED.
	ReturnForRevision(ctx context.Context, reimbursementID, reviewerUserID, comment string) (*domain.Reimbursement, error)

	// Resubmit moves REVISION_REQUIRED back to SUBMITTED, incrementing the
	// revision count. Compliance is not re-run here.
	Resubmit(ctx context.Context, reimbursementID, actorUserID string) (*domain.Reimbursement, error)

	// Cancel moves DRAFT or REVISION_REQUIRED to CANCELLED.
	Cancel(ctx context.Context, reimbursementID, actorUserID string) (*domain.Reimbursement, error)

	// AddReceipt links a receipt, updating receipt count and totals
	// incrementally.
	AddReceipt(ctx context.Context, reimbursementID, receiptID, actorUserID string) (*domain.Reimbursement, error)

	// RemoveReceipt unlinks a receipt; the total is clamped at zero.
	RemoveReceipt(ctx context.Context, reimbursementID, receiptID, actorUserID string) (*domain.Reimbursement, error)
}

// WorkflowSvcFacade combines all reimbursement workflow service interfaces
type WorkflowSvcFacade interface {
	WorkflowReaderSvc
	WorkflowWriterSvc
}
