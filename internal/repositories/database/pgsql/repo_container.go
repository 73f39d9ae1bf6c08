package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ReceiptRepo:       newPgxReceiptRepository(dbPool),
		RuleRepo:          newPgxRuleRepository(dbPool),
		ReimbursementRepo: newPgxReimbursementRepository(dbPool),
		ArchiveRepo:       newPgxArchiveSequenceRepository(dbPool),
	}
}
