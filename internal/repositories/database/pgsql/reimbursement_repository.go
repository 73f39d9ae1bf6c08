package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	"github.com/expenso-labs/receipt_workflow_app/internal/models"
	"github.com/expenso-labs/receipt_workflow_app/internal/utils/mapping"
	"github.com/expenso-labs/receipt_workflow_app/internal/utils/pagination"
)

const reimbursementColumns = `reimbursement_id, title, applicant, department, project, budget_code,
	total_amount, tax_amount, amount_without_tax, receipt_count, status, revision_count,
	submitted_at, approved_at, rejected_at, cancelled_at,
	current_approver, approval_comment, rejection_reason, revision_comment,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxReimbursementRepository struct {
	BaseRepository
}

// newPgxReimbursementRepository creates a new repository for reimbursement data.
func newPgxReimbursementRepository(pool *pgxpool.Pool) portsrepo.ReimbursementRepositoryFacade {
	return &PgxReimbursementRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReimbursementRepositoryFacade = (*PgxReimbursementRepository)(nil)

func scanReimbursement(row pgx.Row) (models.Reimbursement, error) {
	var m models.Reimbursement
	err := row.Scan(
		&m.ReimbursementID, &m.Title, &m.Applicant, &m.Department, &m.Project, &m.BudgetCode,
		&m.TotalAmount, &m.TaxAmount, &m.AmountWithoutTax, &m.ReceiptCount, &m.Status, &m.RevisionCount,
		&m.SubmittedAt, &m.ApprovedAt, &m.RejectedAt, &m.CancelledAt,
		&m.CurrentApprover, &m.ApprovalComment, &m.RejectionReason, &m.RevisionComment,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveReimbursement inserts a new reimbursement.
func (r *PgxReimbursementRepository) SaveReimbursement(ctx context.Context, reimbursement domain.Reimbursement) error {
	m := mapping.ToModelReimbursement(reimbursement)

	query := `
		INSERT INTO reimbursements (` + reimbursementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReimbursementID, m.Title, m.Applicant, m.Department, m.Project, m.BudgetCode,
		m.TotalAmount, m.TaxAmount, m.AmountWithoutTax, m.ReceiptCount, m.Status, m.RevisionCount,
		m.SubmittedAt, m.ApprovedAt, m.RejectedAt, m.CancelledAt,
		m.CurrentApprover, m.ApprovalComment, m.RejectionReason, m.RevisionComment,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: reimbursement with ID %s already exists", apperrors.ErrDuplicate, m.ReimbursementID)
		}
		return fmt.Errorf("failed to save reimbursement %s: %w", m.ReimbursementID, err)
	}
	return nil
}

// FindReimbursementByID retrieves a reimbursement by its ID.
func (r *PgxReimbursementRepository) FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	query := `SELECT ` + reimbursementColumns + ` FROM reimbursements WHERE reimbursement_id = $1;`

	m, err := scanReimbursement(r.Pool.QueryRow(ctx, query, reimbursementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reimbursement by ID %s: %w", reimbursementID, err)
	}

	d := mapping.ToDomainReimbursement(m)
	return &d, nil
}

// ListReimbursements retrieves a page of reimbursements using keyset
// pagination on (created_at, reimbursement_id) descending.
func (r *PgxReimbursementRepository) ListReimbursements(ctx context.Context, limit int, nextToken *string) ([]domain.Reimbursement, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + reimbursementColumns + ` FROM reimbursements`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		createdAt, reimbursementID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, reimbursement_id) < ($1, $2)`
		args = append(args, createdAt, reimbursementID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, reimbursement_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query reimbursements: %w", err)
	}
	defer rows.Close()

	reimbursementModels := []models.Reimbursement{}
	for rows.Next() {
		m, err := scanReimbursement(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan reimbursement row: %w", err)
		}
		reimbursementModels = append(reimbursementModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating reimbursement rows: %w", err)
	}

	var token *string
	if len(reimbursementModels) > limit {
		reimbursementModels = reimbursementModels[:limit]
		last := reimbursementModels[len(reimbursementModels)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.ReimbursementID)
		token = &t
	}

	return mapping.ToDomainReimbursementSlice(reimbursementModels), token, nil
}

// UpdateReimbursement persists state, approver and total changes.
func (r *PgxReimbursementRepository) UpdateReimbursement(ctx context.Context, reimbursement domain.Reimbursement) error {
	m := mapping.ToModelReimbursement(reimbursement)

	query := `
		UPDATE reimbursements
		SET title = $2, applicant = $3, department = $4, project = $5, budget_code = $6,
			total_amount = $7, tax_amount = $8, amount_without_tax = $9, receipt_count = $10,
			status = $11, revision_count = $12,
			submitted_at = $13, approved_at = $14, rejected_at = $15, cancelled_at = $16,
			current_approver = $17, approval_comment = $18, rejection_reason = $19, revision_comment = $20,
			last_updated_at = $21, last_updated_by = $22
		WHERE reimbursement_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ReimbursementID, m.Title, m.Applicant, m.Department, m.Project, m.BudgetCode,
		m.TotalAmount, m.TaxAmount, m.AmountWithoutTax, m.ReceiptCount,
		m.Status, m.RevisionCount,
		m.SubmittedAt, m.ApprovedAt, m.RejectedAt, m.CancelledAt,
		m.CurrentApprover, m.ApprovalComment, m.RejectionReason, m.RevisionComment,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update reimbursement %s: %w", m.ReimbursementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
