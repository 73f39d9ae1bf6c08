package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptType identifies the kind of expense document a receipt represents.
type ReceiptType string

const (
	ReceiptTypeTransport     ReceiptType = "TRANSPORT"
	ReceiptTypeTaxi          ReceiptType = "TAXI"
	ReceiptTypeTrainTicket   ReceiptType = "TRAIN_TICKET"
	ReceiptTypeFlight        ReceiptType = "FLIGHT"
	ReceiptTypeDining        ReceiptType = "DINING"
	ReceiptTypeAccommodation ReceiptType = "ACCOMMODATION"
	ReceiptTypeOffice        ReceiptType = "OFFICE"
	ReceiptTypeCommunication ReceiptType = "COMMUNICATION"
	ReceiptTypeVATInvoice    ReceiptType = "VAT_INVOICE"
	ReceiptTypeOther         ReceiptType = "OTHER"
)

// ParseReceiptType returns the ReceiptType matching s, or false if s is not
// a known type.
func ParseReceiptType(s string) (ReceiptType, bool) {
	switch ReceiptType(s) {
	case ReceiptTypeTransport, ReceiptTypeTaxi, ReceiptTypeTrainTicket, ReceiptTypeFlight,
		ReceiptTypeDining, ReceiptTypeAccommodation, ReceiptTypeOffice,
		ReceiptTypeCommunication, ReceiptTypeVATInvoice, ReceiptTypeOther:
		return ReceiptType(s), true
	}
	return "", false
}

// ReceiptCategory is the accounting category a receipt is filed under.
type ReceiptCategory string

const (
	CategoryIncome         ReceiptCategory = "INCOME"
	CategoryExpense        ReceiptCategory = "EXPENSE"
	CategoryTransportation ReceiptCategory = "TRANSPORTATION"
	CategoryAccommodation  ReceiptCategory = "ACCOMMODATION"
	CategoryFood           ReceiptCategory = "FOOD"
	CategoryOffice         ReceiptCategory = "OFFICE"
	CategoryOther          ReceiptCategory = "OTHER"
)

// ParseReceiptCategory returns the ReceiptCategory matching s, or false if s
// is not a known category.
func ParseReceiptCategory(s string) (ReceiptCategory, bool) {
	switch ReceiptCategory(s) {
	case CategoryIncome, CategoryExpense, CategoryTransportation,
		CategoryAccommodation, CategoryFood, CategoryOffice, CategoryOther:
		return ReceiptCategory(s), true
	}
	return "", false
}

// ArchiveCode returns the fixed 3-letter filing code for the category.
func (c ReceiptCategory) ArchiveCode() string {
	switch c {
	case CategoryIncome:
		return "INC"
	case CategoryExpense:
		return "EXP"
	case CategoryTransportation:
		return "TRA"
	case CategoryAccommodation:
		return "ACC"
	case CategoryFood:
		return "FOD"
	case CategoryOffice:
		return "OFF"
	default:
		return "OTH"
	}
}

// OCRStatus reflects how far the external OCR collaborator got with a receipt image.
type OCRStatus string

const (
	OCRStatusPending   OCRStatus = "PENDING"
	OCRStatusCompleted OCRStatus = "COMPLETED"
	OCRStatusFailed    OCRStatus = "FAILED"
)

// ValidationStatus is the last recorded compliance outcome for a receipt.
type ValidationStatus string

const (
	ValidationStatusUnchecked ValidationStatus = "UNCHECKED"
	ValidationStatusValid     ValidationStatus = "VALID"
	ValidationStatusInvalid   ValidationStatus = "INVALID"
)

// Receipt is one scanned expense document. It is created by the OCR
// collaborator with classification fields mostly empty and mutated by the
// classifier and workflow operations. Receipts are never deleted by this
// core.
type Receipt struct {
	ReceiptID string `json:"receiptID"` // Primary Key (UUID), immutable

	// Classification
	ReceiptType ReceiptType     `json:"receiptType"`
	Category    ReceiptCategory `json:"category"`
	SubCategory string          `json:"subCategory"`
	Tags        string          `json:"tags"` // comma-joined set
	Department  string          `json:"department"`
	Project     string          `json:"project"`

	// Financials; nil means the OCR collaborator could not extract the value.
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	TotalAmount      *decimal.Decimal `json:"totalAmount,omitempty"`
	AmountWithoutTax *decimal.Decimal `json:"amountWithoutTax,omitempty"`
	TaxAmount        *decimal.Decimal `json:"taxAmount,omitempty"`
	TaxRate          *decimal.Decimal `json:"taxRate,omitempty"`

	// Provenance
	Merchant        string           `json:"merchant"`
	Seller          string           `json:"seller"`
	Buyer           string           `json:"buyer"`
	InvoiceCode     string           `json:"invoiceCode"`
	InvoiceNumber   string           `json:"invoiceNumber"`
	InvoiceDate     *time.Time       `json:"invoiceDate,omitempty"`
	FilePath        string           `json:"filePath"`
	OCRText         string           `json:"ocrText"`
	OCRStatus       OCRStatus        `json:"ocrStatus"`
	ValidationState ValidationStatus `json:"validationStatus"`

	// Descriptive context used by compliance checks.
	Attendees       string `json:"attendees"`
	ItemDescription string `json:"itemDescription"`

	// Lifecycle
	Processed       bool       `json:"processed"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
	ArchiveNumber   *string    `json:"archiveNumber,omitempty"` // never mutated once assigned
	Archived        bool       `json:"archived"`
	ArchivedAt      *time.Time `json:"archivedAt,omitempty"`
	ReimbursementID *string    `json:"reimbursementID,omitempty"`

	AuditFields
}

// EffectiveAmount is the monetary value a receipt contributes to a
// reimbursement: TotalAmount when present, otherwise Amount, otherwise zero.
func (r *Receipt) EffectiveAmount() decimal.Decimal {
	if r.TotalAmount != nil {
		return *r.TotalAmount
	}
	if r.Amount != nil {
		return *r.Amount
	}
	return decimal.Zero
}

// HasArchiveNumber reports whether an archive number has been assigned.
func (r *Receipt) HasArchiveNumber() bool {
	return r.ArchiveNumber != nil && *r.ArchiveNumber != ""
}
