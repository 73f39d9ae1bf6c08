package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
)

type PgxArchiveSequenceRepository struct {
	BaseRepository
}

// newPgxArchiveSequenceRepository creates a new repository for archive serial counters.
func newPgxArchiveSequenceRepository(pool *pgxpool.Pool) portsrepo.ArchiveSequenceRepository {
	return &PgxArchiveSequenceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ArchiveSequenceRepository = (*PgxArchiveSequenceRepository)(nil)

// NextSerial atomically increments and returns the serial counter for a
// (year, month, category) bucket. The upsert makes concurrent callers
// serialise on the counter row, so no two calls can receive the same serial.
func (r *PgxArchiveSequenceRepository) NextSerial(ctx context.Context, year, month int, categoryCode string) (int64, error) {
	return r.nextSerial(ctx, r.Pool, year, month, categoryCode)
}

// NextSerialInTx advances the bucket counter within a caller-owned
// transaction. A rollback releases the serial before it is ever observed.
func (r *PgxArchiveSequenceRepository) NextSerialInTx(ctx context.Context, tx pgx.Tx, year, month int, categoryCode string) (int64, error) {
	return r.nextSerial(ctx, tx, year, month, categoryCode)
}

func (r *PgxArchiveSequenceRepository) nextSerial(ctx context.Context, q querier, year, month int, categoryCode string) (int64, error) {
	query := `
		INSERT INTO archive_sequences (year, month, category_code, serial)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (year, month, category_code)
		DO UPDATE SET serial = archive_sequences.serial + 1
		RETURNING serial;
	`
	var serial int64
	if err := q.QueryRow(ctx, query, year, month, categoryCode).Scan(&serial); err != nil {
		return 0, fmt.Errorf("failed to advance archive serial for %d-%02d-%s: %w", year, month, categoryCode, err)
	}
	return serial, nil
}
