package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ArchiveSequenceRepository issues archive-number serials. Serials are
// monotonically increasing within their (year, month, categoryCode) bucket
// and are never reused, even when the owning receipt is later removed by a
// collaborator.
type ArchiveSequenceRepository interface {
	// NextSerial atomically increments and returns the serial counter for the
	// given bucket. Safe under concurrent classification of receipts sharing
	// a bucket.
	NextSerial(ctx context.Context, year int, month int, categoryCode string) (int64, error)

	// NextSerialInTx advances the bucket counter within a given transaction,
	// so a rolled-back classification releases its serial.
	NextSerialInTx(ctx context.Context, tx pgx.Tx, year int, month int, categoryCode string) (int64, error)
}
