package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// ReceiptReader defines read operations for receipt data
type ReceiptReader interface {
	// FindReceiptByID retrieves a specific receipt by its unique identifier.
	FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error)

	// ListReceipts retrieves a paginated list of receipts using token-based pagination.
	// It returns the receipts, a token for the next page, and an error.
	ListReceipts(ctx context.Context, limit int, nextToken *string) ([]domain.Receipt, *string, error)

	// FindReceiptsByReimbursementID retrieves all receipts linked to a reimbursement.
	FindReceiptsByReimbursementID(ctx context.Context, reimbursementID string) ([]domain.Receipt, error)
}

// ReceiptWriter defines write operations for receipt data
type ReceiptWriter interface {
	// SaveReceipt persists a newly created receipt.
	SaveReceipt(ctx context.Context, receipt domain.Receipt) error

	// UpdateReceipt persists classification and lifecycle changes to a receipt.
	UpdateReceipt(ctx context.Context, receipt domain.Receipt) error

	// LinkReceipt sets the receipt's reimbursement foreign key. It fails with
	// apperrors.ErrAlreadyLinked when the receipt is linked elsewhere.
	LinkReceipt(ctx context.Context, receiptID, reimbursementID, updatedByUserID string, updatedAt time.Time) error

	// UnlinkReceipt clears the receipt's reimbursement foreign key. It fails
	// with apperrors.ErrNotLinked when the receipt is not linked to the given
	// reimbursement.
	UnlinkReceipt(ctx context.Context, receiptID, reimbursementID, updatedByUserID string, updatedAt time.Time) error
}

// ReceiptRepositoryFacade combines all receipt-related repository interfaces
type ReceiptRepositoryFacade interface {
	ReceiptReader
	ReceiptWriter
}

// ReceiptRepositoryWithTx extends ReceiptRepositoryFacade with transaction capabilities
type ReceiptRepositoryWithTx interface {
	ReceiptRepositoryFacade
	TransactionManager

	// UpdateReceiptInTx persists classification and lifecycle changes within
	// a given transaction.
	UpdateReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error
}
