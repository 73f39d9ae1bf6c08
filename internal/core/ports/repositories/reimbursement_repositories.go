package repositories

import (
	"context"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// ReimbursementReader defines read operations for reimbursement data
type ReimbursementReader interface {
	// FindReimbursementByID retrieves a specific reimbursement by its unique identifier.
	FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)

	// ListReimbursements retrieves a paginated list of reimbursements using
	// token-based pagination.
	ListReimbursements(ctx context.Context, limit int, nextToken *string) ([]domain.Reimbursement, *string, error)
}

// ReimbursementWriter defines write operations for reimbursement data
type ReimbursementWriter interface {
	// SaveReimbursement persists a newly created reimbursement.
	SaveReimbursement(ctx context.Context, reimbursement domain.Reimbursement) error

	// UpdateReimbursement persists state and total changes to a reimbursement.
	UpdateReimbursement(ctx context.Context, reimbursement domain.Reimbursement) error
}

// ReimbursementRepositoryFacade combines all reimbursement-related repository interfaces
type ReimbursementRepositoryFacade interface {
	ReimbursementReader
	ReimbursementWriter
}
