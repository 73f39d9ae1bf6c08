package services

import (
	"context"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
)

// ReceiptReaderSvc defines read operations for receipt data
type ReceiptReaderSvc interface {
	// GetReceiptByID retrieves a specific receipt by its ID.
	GetReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error)

	// ListReceipts retrieves a paginated list of receipts.
	ListReceipts(ctx context.Context, limit int, nextToken *string) ([]domain.Receipt, *string, error)
}

// ReceiptWriterSvc defines write operations for receipt data
type ReceiptWriterSvc interface {
	// CreateReceipt persists a new receipt as produced by the OCR collaborator.
	// Classification fields start blank; the classifier fills them in later.
	CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, creatorUserID string) (*domain.Receipt, error)
}

// ReceiptSvcFacade combines all receipt-related service interfaces
type ReceiptSvcFacade interface {
	ReceiptReaderSvc
	ReceiptWriterSvc
}
