package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// receiptService handles receipt intake and lookups.
type receiptService struct {
	receiptRepo portsrepo.ReceiptRepositoryFacade
	now         func() time.Time
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(receiptRepo portsrepo.ReceiptRepositoryFacade) portssvc.ReceiptSvcFacade {
	return &receiptService{
		receiptRepo: receiptRepo,
		now:         time.Now,
	}
}

var _ portssvc.ReceiptSvcFacade = (*receiptService)(nil)

// GetReceiptByID retrieves a receipt.
func (s *receiptService) GetReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt %s: %w", receiptID, err)
	}
	return receipt, nil
}

// ListReceipts retrieves a page of receipts.
func (s *receiptService) ListReceipts(ctx context.Context, limit int, nextToken *string) ([]domain.Receipt, *string, error) {
	receipts, token, err := s.receiptRepo.ListReceipts(ctx, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	if receipts == nil {
		receipts = []domain.Receipt{}
	}
	return receipts, token, nil
}

// CreateReceipt records a receipt as delivered by the OCR collaborator.
// Classification fields start empty; OCR status defaults to PENDING and the
// receipt type to OTHER when absent.
func (s *receiptService) CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, creatorUserID string) (*domain.Receipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.now().UTC()

	receiptType := domain.ReceiptTypeOther
	if req.ReceiptType != "" {
		receiptType = domain.ReceiptType(req.ReceiptType)
	}
	ocrStatus := domain.OCRStatusPending
	if req.OCRStatus != "" {
		ocrStatus = domain.OCRStatus(req.OCRStatus)
	}

	receipt := domain.Receipt{
		ReceiptID:        uuid.NewString(),
		ReceiptType:      receiptType,
		Amount:           req.Amount,
		TotalAmount:      req.TotalAmount,
		AmountWithoutTax: req.AmountWithoutTax,
		TaxAmount:        req.TaxAmount,
		TaxRate:          req.TaxRate,
		Merchant:         req.Merchant,
		Seller:           req.Seller,
		Buyer:            req.Buyer,
		InvoiceCode:      req.InvoiceCode,
		InvoiceNumber:    req.InvoiceNumber,
		InvoiceDate:      req.InvoiceDate,
		FilePath:         req.FilePath,
		OCRText:          req.OCRText,
		OCRStatus:        ocrStatus,
		ValidationState:  domain.ValidationStatusUnchecked,
		Attendees:        req.Attendees,
		ItemDescription:  req.ItemDescription,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	logger.Info("Receipt recorded",
		slog.String("receipt_id", receipt.ReceiptID),
		slog.String("receipt_type", string(receipt.ReceiptType)))
	return &receipt, nil
}
