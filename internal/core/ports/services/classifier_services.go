package services

import (
	"context"

	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
)

// ClassifierSvcFacade applies classification rules to receipts and assigns
// archive numbers.
type ClassifierSvcFacade interface {
	// ClassifyReceipt applies the first fully matching enabled rule to the
	// receipt, or the default classification when no rule matches. The
	// receipt ends up processed with a non-empty archive number either way.
	ClassifyReceipt(ctx context.Context, receiptID string, actorUserID string) (*dto.ClassificationResult, error)

	// BatchClassifyReceipts classifies each receipt in turn, isolating
	// per-item failures and reporting aggregate counts. A cancelled context
	// stops the batch between items without corrupting committed results.
	BatchClassifyReceipts(ctx context.Context, receiptIDs []string, actorUserID string) (*dto.BatchClassificationResult, error)
}
