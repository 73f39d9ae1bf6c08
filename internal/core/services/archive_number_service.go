package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
)

// archiveNumberService issues archive numbers from per-bucket serial
// counters. The counter lives in the repository and is incremented
// atomically, so concurrent classification of receipts in the same
// (year, month, category) bucket can never produce duplicate serials.
type archiveNumberService struct {
	archiveRepo portsrepo.ArchiveSequenceRepository
	now         func() time.Time
}

// NewArchiveNumberService creates a new ArchiveNumberService.
func NewArchiveNumberService(archiveRepo portsrepo.ArchiveSequenceRepository) portssvc.ArchiveNumberSvcFacade {
	return &archiveNumberService{
		archiveRepo: archiveRepo,
		now:         time.Now,
	}
}

var _ portssvc.ArchiveNumberSvcFacade = (*archiveNumberService)(nil)

// bucketDate picks the date the receipt is filed under: invoice date when
// present, then creation date, then the current instant.
func (s *archiveNumberService) bucketDate(receipt *domain.Receipt) time.Time {
	if receipt.InvoiceDate != nil {
		return *receipt.InvoiceDate
	}
	if !receipt.CreatedAt.IsZero() {
		return receipt.CreatedAt
	}
	return s.now()
}

// Generate issues the next archive number for the receipt's bucket, in the
// form "{year}-{month:02}-{categoryCode}-{serial:04}".
func (s *archiveNumberService) Generate(ctx context.Context, receipt *domain.Receipt) (string, error) {
	date := s.bucketDate(receipt)
	year, month := date.Year(), int(date.Month())
	code := receipt.Category.ArchiveCode()

	serial, err := s.archiveRepo.NextSerial(ctx, year, month, code)
	if err != nil {
		return "", fmt.Errorf("failed to issue archive serial for bucket %d-%02d-%s: %w", year, month, code, err)
	}

	return fmt.Sprintf("%d-%02d-%s-%04d", year, month, code, serial), nil
}

// GenerateInTx issues the next archive number within the caller's
// transaction, so a rolled-back commit releases the serial instead of
// leaving it spent with no receipt reflecting it.
func (s *archiveNumberService) GenerateInTx(ctx context.Context, tx pgx.Tx, receipt *domain.Receipt) (string, error) {
	date := s.bucketDate(receipt)
	year, month := date.Year(), int(date.Month())
	code := receipt.Category.ArchiveCode()

	serial, err := s.archiveRepo.NextSerialInTx(ctx, tx, year, month, code)
	if err != nil {
		return "", fmt.Errorf("failed to issue archive serial for bucket %d-%02d-%s: %w", year, month, code, err)
	}

	return fmt.Sprintf("%d-%02d-%s-%04d", year, month, code, serial), nil
}
