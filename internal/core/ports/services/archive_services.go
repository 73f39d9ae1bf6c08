package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// ArchiveNumberSvcFacade issues archive numbers in the form
// "{year}-{month:02}-{categoryCode}-{serial:04}". Serials are monotonically
// increasing within their (year, month, categoryCode) bucket and never
// reused.
type ArchiveNumberSvcFacade interface {
	// Generate issues the next archive number for the receipt's bucket. The
	// bucket's year and month come from the invoice date when present, then
	// the creation date, then the current instant.
	Generate(ctx context.Context, receipt *domain.Receipt) (string, error)

	// GenerateInTx issues the next archive number within a given transaction.
	// The classifier uses this so a failed receipt update rolls the serial
	// back instead of leaving it spent.
	GenerateInTx(ctx context.Context, tx pgx.Tx, receipt *domain.Receipt) (string, error)
}
