package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const receiptColumns = `receipt_id, receipt_type, category, sub_category, tags, department, project,
	amount, total_amount, amount_without_tax, tax_amount, tax_rate,
	merchant, seller, buyer, invoice_code, invoice_number, invoice_date,
	file_path, ocr_text, ocr_status, validation_status, attendees, item_description,
	processed, processed_at, archive_number, archived, archived_at, reimbursement_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxReceiptRepository struct {
	BaseRepository
}

// newPgxReceiptRepository creates a new repository for receipt data.
func newPgxReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepositoryWithTx {
	return &PgxReceiptRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReceiptRepositoryWithTx = (*PgxReceiptRepository)(nil)

func scanReceipt(row pgx.Row) (models.Receipt, error) {
	var m models.Receipt
	err := row.Scan(
		&m.ReceiptID, &m.ReceiptType, &m.Category, &m.SubCategory, &m.Tags, &m.Department, &m.Project,
		&m.Amount, &m.TotalAmount, &m.AmountWithoutTax, &m.TaxAmount, &m.TaxRate,
		&m.Merchant, &m.Seller, &m.Buyer, &m.InvoiceCode, &m.InvoiceNumber, &m.InvoiceDate,
		&m.FilePath, &m.OCRText, &m.OCRStatus, &m.ValidationStatus, &m.Attendees, &m.ItemDescription,
		&m.Processed, &m.ProcessedAt, &m.ArchiveNumber, &m.Archived, &m.ArchivedAt, &m.ReimbursementID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveReceipt inserts a new receipt.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	m := mapping.ToModelReceipt(receipt)

	query := `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReceiptID, m.ReceiptType, m.Category, m.SubCategory, m.Tags, m.Department, m.Project,
		m.Amount, m.TotalAmount, m.AmountWithoutTax, m.TaxAmount, m.TaxRate,
		m.Merchant, m.Seller, m.Buyer, m.InvoiceCode, m.InvoiceNumber, m.InvoiceDate,
		m.FilePath, m.OCRText, m.OCRStatus, m.ValidationStatus, m.Attendees, m.ItemDescription,
		m.Processed, m.ProcessedAt, m.ArchiveNumber, m.Archived, m.ArchivedAt, m.ReimbursementID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: receipt with ID %s already exists", apperrors.ErrDuplicate, m.ReceiptID)
		}
		return fmt.Errorf("failed to save receipt %s: %w", m.ReceiptID, err)
	}
	return nil
}

// FindReceiptByID retrieves a receipt by its ID.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE receipt_id = $1;`

	m, err := scanReceipt(r.Pool.QueryRow(ctx, query, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receipt by ID %s: %w", receiptID, err)
	}

	d := mapping.ToDomainReceipt(m)
	return &d, nil
}

// ListReceipts retrieves a page of receipts using keyset pagination on
// (created_at, receipt_id) descending.
func (r *PgxReceiptRepository) ListReceipts(ctx context.Context, limit int, nextToken *string) ([]domain.Receipt, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + receiptColumns + ` FROM receipts`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		createdAt, receiptID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, receipt_id) < ($1, $2)`
		args = append(args, createdAt, receiptID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, receipt_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // fetch one extra row to detect the next page

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	receiptModels := []models.Receipt{}
	for rows.Next() {
		m, err := scanReceipt(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receiptModels = append(receiptModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating receipt rows: %w", err)
	}

	var token *string
	if len(receiptModels) > limit {
		receiptModels = receiptModels[:limit]
		last := receiptModels[len(receiptModels)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.ReceiptID)
		token = &t
	}

	return mapping.ToDomainReceiptSlice(receiptModels), token, nil
}

// FindReceiptsByReimbursementID retrieves all receipts linked to a reimbursement.
func (r *PgxReceiptRepository) FindReceiptsByReimbursementID(ctx context.Context, reimbursementID string) ([]domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE reimbursement_id = $1 ORDER BY created_at, receipt_id;`

	rows, err := r.Pool.Query(ctx, query, reimbursementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts for reimbursement %s: %w", reimbursementID, err)
	}
	defer rows.Close()

	receiptModels := []models.Receipt{}
	for rows.Next() {
		m, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt row for reimbursement %s: %w", reimbursementID, err)
		}
		receiptModels = append(receiptModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipt rows for reimbursement %s: %w", reimbursementID, err)
	}

	return mapping.ToDomainReceiptSlice(receiptModels), nil
}

// UpdateReceipt persists classification and lifecycle changes to a receipt.
// Identity and provenance columns are not updatable.
func (r *PgxReceiptRepository) UpdateReceipt(ctx context.Context, receipt domain.Receipt) error {
	return r.updateReceipt(ctx, r.Pool, receipt)
}

// UpdateReceiptInTx persists classification and lifecycle changes within a
// caller-owned transaction.
func (r *PgxReceiptRepository) UpdateReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error {
	return r.updateReceipt(ctx, tx, receipt)
}

func (r *PgxReceiptRepository) updateReceipt(ctx context.Context, q querier, receipt domain.Receipt) error {
	m := mapping.ToModelReceipt(receipt)

	query := `
		UPDATE receipts
		SET receipt_type = $2, category = $3, sub_category = $4, tags = $5, department = $6, project = $7,
			validation_status = $8, processed = $9, processed_at = $10, archive_number = $11,
			archived = $12, archived_at = $13, last_updated_at = $14, last_updated_by = $15
		WHERE receipt_id = $1;
	`
	cmdTag, err := q.Exec(ctx, query,
		m.ReceiptID, m.ReceiptType, m.Category, m.SubCategory, m.Tags, m.Department, m.Project,
		m.ValidationStatus, m.Processed, m.ProcessedAt, m.ArchiveNumber,
		m.Archived, m.ArchivedAt, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update receipt %s: %w", m.ReceiptID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkReceipt sets the receipt's reimbursement foreign key. The WHERE clause
// only matches unlinked receipts, so a receipt can never end up on two
// reimbursements even under concurrent linking.
func (r *PgxReceiptRepository) LinkReceipt(ctx context.Context, receiptID, reimbursementID, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE receipts
		SET reimbursement_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE receipt_id = $1 AND reimbursement_id IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, receiptID, reimbursementID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to execute link receipt %s: %w", receiptID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish missing receipt from an existing link.
		if _, findErr := r.FindReceiptByID(ctx, receiptID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check receipt %s after link attempt: %w", receiptID, findErr)
		}
		return fmt.Errorf("%w: receipt %s", apperrors.ErrAlreadyLinked, receiptID)
	}
	return nil
}

// UnlinkReceipt clears the receipt's reimbursement foreign key. The WHERE
// clause requires the current link, so unlinking from the wrong
// reimbursement is a no-op reported as ErrNotLinked.
func (r *PgxReceiptRepository) UnlinkReceipt(ctx context.Context, receiptID, reimbursementID, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE receipts
		SET reimbursement_id = NULL, last_updated_at = $3, last_updated_by = $4
		WHERE receipt_id = $1 AND reimbursement_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, receiptID, reimbursementID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to execute unlink receipt %s: %w", receiptID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindReceiptByID(ctx, receiptID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check receipt %s after unlink attempt: %w", receiptID, findErr)
		}
		return fmt.Errorf("%w: receipt %s is not linked to reimbursement %s", apperrors.ErrNotLinked, receiptID, reimbursementID)
	}
	return nil
}
