package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the database representation of a scanned expense document.
// Nullable columns use pointer types.
type Receipt struct {
	ReceiptID        string           `db:"receipt_id"`
	ReceiptType      string           `db:"receipt_type"`
	Category         string           `db:"category"`
	SubCategory      string           `db:"sub_category"`
	Tags             string           `db:"tags"`
	Department       string           `db:"department"`
	Project          string           `db:"project"`
	Amount           *decimal.Decimal `db:"amount"`
	TotalAmount      *decimal.Decimal `db:"total_amount"`
	AmountWithoutTax *decimal.Decimal `db:"amount_without_tax"`
	TaxAmount        *decimal.Decimal `db:"tax_amount"`
	TaxRate          *decimal.Decimal `db:"tax_rate"`
	Merchant         string           `db:"merchant"`
	Seller           string           `db:"seller"`
	Buyer            string           `db:"buyer"`
	InvoiceCode      string           `db:"invoice_code"`
	InvoiceNumber    string           `db:"invoice_number"`
	InvoiceDate      *time.Time       `db:"invoice_date"`
	FilePath         string           `db:"file_path"`
	OCRText          string           `db:"ocr_text"`
	OCRStatus        string           `db:"ocr_status"`
	ValidationStatus string           `db:"validation_status"`
	Attendees        string           `db:"attendees"`
	ItemDescription  string           `db:"item_description"`
	Processed        bool             `db:"processed"`
	ProcessedAt      *time.Time       `db:"processed_at"`
	ArchiveNumber    *string          `db:"archive_number"`
	Archived         bool             `db:"archived"`
	ArchivedAt       *time.Time       `db:"archived_at"`
	ReimbursementID  *string          `db:"reimbursement_id"`
	AuditFields
}
