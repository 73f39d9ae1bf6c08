package dto

import (
	"time"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReceiptRequest carries a receipt as produced by the OCR collaborator.
// Classification fields are deliberately absent; the classifier owns them.
type CreateReceiptRequest struct {
	ReceiptType      string           `json:"receiptType" binding:"omitempty,receipttype"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	TotalAmount      *decimal.Decimal `json:"totalAmount,omitempty"`
	AmountWithoutTax *decimal.Decimal `json:"amountWithoutTax,omitempty"`
	TaxAmount        *decimal.Decimal `json:"taxAmount,omitempty"`
	TaxRate          *decimal.Decimal `json:"taxRate,omitempty"`
	Merchant         string           `json:"merchant"`
	Seller           string           `json:"seller"`
	Buyer            string           `json:"buyer"`
	InvoiceCode      string           `json:"invoiceCode"`
	InvoiceNumber    string           `json:"invoiceNumber"`
	InvoiceDate      *time.Time       `json:"invoiceDate,omitempty"`
	FilePath         string           `json:"filePath"`
	OCRText          string           `json:"ocrText"`
	OCRStatus        string           `json:"ocrStatus" binding:"omitempty,oneof=PENDING COMPLETED FAILED"`
	Attendees        string           `json:"attendees"`
	ItemDescription  string           `json:"itemDescription"`
}

// ReceiptResponse is the transport representation of a receipt.
type ReceiptResponse struct {
	ReceiptID        string           `json:"receiptID"`
	ReceiptType      string           `json:"receiptType"`
	Category         string           `json:"category"`
	SubCategory      string           `json:"subCategory"`
	Tags             string           `json:"tags"`
	Department       string           `json:"department"`
	Project          string           `json:"project"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	TotalAmount      *decimal.Decimal `json:"totalAmount,omitempty"`
	AmountWithoutTax *decimal.Decimal `json:"amountWithoutTax,omitempty"`
	TaxAmount        *decimal.Decimal `json:"taxAmount,omitempty"`
	TaxRate          *decimal.Decimal `json:"taxRate,omitempty"`
	Merchant         string           `json:"merchant"`
	Seller           string           `json:"seller"`
	Buyer            string           `json:"buyer"`
	InvoiceCode      string           `json:"invoiceCode"`
	InvoiceNumber    string           `json:"invoiceNumber"`
	InvoiceDate      *time.Time       `json:"invoiceDate,omitempty"`
	FilePath         string           `json:"filePath"`
	OCRStatus        string           `json:"ocrStatus"`
	ValidationStatus string           `json:"validationStatus"`
	Processed        bool             `json:"processed"`
	ProcessedAt      *time.Time       `json:"processedAt,omitempty"`
	ArchiveNumber    *string          `json:"archiveNumber,omitempty"`
	Archived         bool             `json:"archived"`
	ArchivedAt       *time.Time       `json:"archivedAt,omitempty"`
	ReimbursementID  *string          `json:"reimbursementID,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ToReceiptResponse converts a domain.Receipt to its transport representation.
func ToReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:        r.ReceiptID,
		ReceiptType:      string(r.ReceiptType),
		Category:         string(r.Category),
		SubCategory:      r.SubCategory,
		Tags:             r.Tags,
		Department:       r.Department,
		Project:          r.Project,
		Amount:           r.Amount,
		TotalAmount:      r.TotalAmount,
		AmountWithoutTax: r.AmountWithoutTax,
		TaxAmount:        r.TaxAmount,
		TaxRate:          r.TaxRate,
		Merchant:         r.Merchant,
		Seller:           r.Seller,
		Buyer:            r.Buyer,
		InvoiceCode:      r.InvoiceCode,
		InvoiceNumber:    r.InvoiceNumber,
		InvoiceDate:      r.InvoiceDate,
		FilePath:         r.FilePath,
		OCRStatus:        string(r.OCRStatus),
		ValidationStatus: string(r.ValidationState),
		Processed:        r.Processed,
		ProcessedAt:      r.ProcessedAt,
		ArchiveNumber:    r.ArchiveNumber,
		Archived:         r.Archived,
		ArchivedAt:       r.ArchivedAt,
		ReimbursementID:  r.ReimbursementID,
		CreatedAt:        r.CreatedAt,
	}
}

// ListReceiptsResponse wraps a page of receipts with the next-page token.
type ListReceiptsResponse struct {
	Receipts  []ReceiptResponse `json:"receipts"`
	NextToken *string           `json:"nextToken,omitempty"`
}
