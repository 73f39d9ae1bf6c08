package mapping

import (
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/expenso-labs/receipt_workflow_app/internal/models"
)

// ToModelReceipt converts a domain Receipt to a model Receipt
func ToModelReceipt(d domain.Receipt) models.Receipt {
	return models.Receipt{
		ReceiptID:        d.ReceiptID,
		ReceiptType:      string(d.ReceiptType),
		Category:         string(d.Category),
		SubCategory:      d.SubCategory,
		Tags:             d.Tags,
		Department:       d.Department,
		Project:          d.Project,
		Amount:           d.Amount,
		TotalAmount:      d.TotalAmount,
		AmountWithoutTax: d.AmountWithoutTax,
		TaxAmount:        d.TaxAmount,
		TaxRate:          d.TaxRate,
		Merchant:         d.Merchant,
		Seller:           d.Seller,
		Buyer:            d.Buyer,
		InvoiceCode:      d.InvoiceCode,
		InvoiceNumber:    d.InvoiceNumber,
		InvoiceDate:      d.InvoiceDate,
		FilePath:         d.FilePath,
		OCRText:          d.OCRText,
		OCRStatus:        string(d.OCRStatus),
		ValidationStatus: string(d.ValidationState),
		Attendees:        d.Attendees,
		ItemDescription:  d.ItemDescription,
		Processed:        d.Processed,
		ProcessedAt:      d.ProcessedAt,
		ArchiveNumber:    d.ArchiveNumber,
		Archived:         d.Archived,
		ArchivedAt:       d.ArchivedAt,
		ReimbursementID:  d.ReimbursementID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReceipt converts a model Receipt to a domain Receipt
func ToDomainReceipt(m models.Receipt) domain.Receipt {
	return domain.Receipt{
		ReceiptID:        m.ReceiptID,
		ReceiptType:      domain.ReceiptType(m.ReceiptType),
		Category:         domain.ReceiptCategory(m.Category),
		SubCategory:      m.SubCategory,
		Tags:             m.Tags,
		Department:       m.Department,
		Project:          m.Project,
		Amount:           m.Amount,
		TotalAmount:      m.TotalAmount,
		AmountWithoutTax: m.AmountWithoutTax,
		TaxAmount:        m.TaxAmount,
		TaxRate:          m.TaxRate,
		Merchant:         m.Merchant,
		Seller:           m.Seller,
		Buyer:            m.Buyer,
		InvoiceCode:      m.InvoiceCode,
		InvoiceNumber:    m.InvoiceNumber,
		InvoiceDate:      m.InvoiceDate,
		FilePath:         m.FilePath,
		OCRText:          m.OCRText,
		OCRStatus:        domain.OCRStatus(m.OCRStatus),
		ValidationState:  domain.ValidationStatus(m.ValidationStatus),
		Attendees:        m.Attendees,
		ItemDescription:  m.ItemDescription,
		Processed:        m.Processed,
		ProcessedAt:      m.ProcessedAt,
		ArchiveNumber:    m.ArchiveNumber,
		Archived:         m.Archived,
		ArchivedAt:       m.ArchivedAt,
		ReimbursementID:  m.ReimbursementID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReceiptSlice converts a slice of model Receipts to domain Receipts
func ToDomainReceiptSlice(ms []models.Receipt) []domain.Receipt {
	ds := make([]domain.Receipt, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReceipt(m)
	}
	return ds
}
