package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// workflowService is the state machine governing a reimbursement's
// lifecycle. Invalid transitions fail with apperrors.ErrInvalidTransition
// and never change state; no transition is retried automatically.
type workflowService struct {
	reimbursementRepo portsrepo.ReimbursementRepositoryFacade
	receiptRepo       portsrepo.ReceiptRepositoryWithTx
	complianceSvc     portssvc.ComplianceSvcFacade
	notifier          portssvc.Notifier
	now               func() time.Time
}

// NewWorkflowService creates a new WorkflowService. The notifier may be nil
// when no notification collaborator is attached.
func NewWorkflowService(reimbursementRepo portsrepo.ReimbursementRepositoryFacade, receiptRepo portsrepo.ReceiptRepositoryWithTx, complianceSvc portssvc.ComplianceSvcFacade, notifier portssvc.Notifier) portssvc.WorkflowSvcFacade {
	return &workflowService{
		reimbursementRepo: reimbursementRepo,
		receiptRepo:       receiptRepo,
		complianceSvc:     complianceSvc,
		notifier:          notifier,
		now:               time.Now,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// CreateReimbursement creates a reimbursement in DRAFT, links the listed
// receipts and computes initial totals from them.
func (s *workflowService) CreateReimbursement(ctx context.Context, req dto.CreateReimbursementRequest, creatorUserID string) (*domain.Reimbursement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.now().UTC()

	reimbursement := domain.Reimbursement{
		ReimbursementID: uuid.NewString(),
		Title:           req.Title,
		Applicant:       req.Applicant,
		Department:      req.Department,
		Project:         req.Project,
		BudgetCode:      req.BudgetCode,
		Status:          domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	receipts := make([]*domain.Receipt, 0, len(req.ReceiptIDs))
	for _, receiptID := range req.ReceiptIDs {
		receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch receipt %s: %w", receiptID, err)
		}
		if receipt.ReimbursementID != nil {
			return nil, fmt.Errorf("%w: receipt %s is linked to reimbursement %s",
				apperrors.ErrAlreadyLinked, receiptID, *receipt.ReimbursementID)
		}
		receipts = append(receipts, receipt)
	}

	for _, receipt := range receipts {
		reimbursement.TotalAmount = reimbursement.TotalAmount.Add(receipt.EffectiveAmount())
		if receipt.TaxAmount != nil {
			reimbursement.TaxAmount = reimbursement.TaxAmount.Add(*receipt.TaxAmount)
		}
		if receipt.AmountWithoutTax != nil {
			reimbursement.AmountWithoutTax = reimbursement.AmountWithoutTax.Add(*receipt.AmountWithoutTax)
		}
	}
	reimbursement.ReceiptCount = len(receipts)

	if err := s.reimbursementRepo.SaveReimbursement(ctx, reimbursement); err != nil {
		return nil, fmt.Errorf("failed to save reimbursement: %w", err)
	}

	for _, receipt := range receipts {
		if err := s.receiptRepo.LinkReceipt(ctx, receipt.ReceiptID, reimbursement.ReimbursementID, creatorUserID, now); err != nil {
			return nil, fmt.Errorf("failed to link receipt %s: %w", receipt.ReceiptID, err)
		}
	}

	logger.Info("Reimbursement created",
		slog.String("reimbursement_id", reimbursement.ReimbursementID),
		slog.Int("receipt_count", reimbursement.ReceiptCount))
	return &reimbursement, nil
}

// GetReimbursementByID retrieves a reimbursement.
func (s *workflowService) GetReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reimbursement %s: %w", reimbursementID, err)
	}
	return reimbursement, nil
}

// ListReimbursements retrieves a page of reimbursements.
func (s *workflowService) ListReimbursements(ctx context.Context, limit int, nextToken *string) ([]domain.Reimbursement, *string, error) {
	reimbursements, token, err := s.reimbursementRepo.ListReimbursements(ctx, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reimbursements: %w", err)
	}
	if reimbursements == nil {
		reimbursements = []domain.Reimbursement{}
	}
	return reimbursements, token, nil
}

// Validate runs the compliance pipeline without changing state.
func (s *workflowService) Validate(ctx context.Context, reimbursementID string) (*domain.ValidationResult, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reimbursement %s: %w", reimbursementID, err)
	}
	receipts, err := s.receiptRepo.FindReceiptsByReimbursementID(ctx, reimbursementID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipts for reimbursement %s: %w", reimbursementID, err)
	}
	return s.complianceSvc.ValidateReimbursement(ctx, reimbursement, receipts), nil
}

// requireStatus fetches the reimbursement and checks it is in one of the
// allowed states.
func (s *workflowService) requireStatus(ctx context.Context, reimbursementID string, allowed ...domain.ReimbursementStatus) (*domain.Reimbursement, error) {
	reimbursement, err := s.reimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reimbursement %s: %w", reimbursementID, err)
	}
	for _, status := range allowed {
		if reimbursement.Status == status {
			return reimbursement, nil
		}
	}
	return nil, fmt.Errorf("%w: reimbursement %s is %s", apperrors.ErrInvalidTransition, reimbursementID, reimbursement.Status)
}

// notify publishes a status-change event; delivery is best-effort.
func (s *workflowService) notify(ctx context.Context, reimbursement *domain.Reimbursement, actor, comment string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyStatusChange(ctx, domain.StatusChangeEvent{
		ReimbursementID: reimbursement.ReimbursementID,
		Status:          reimbursement.Status,
		Actor:           actor,
		Comment:         comment,
		OccurredAt:      s.now().UTC(),
	})
}

// SubmitForApproval runs the compliance gate and, when it passes, moves
// DRAFT or REVISION_REQUIRED to SUBMITTED. Any ERROR-severity issue fails
// the transition without changing state.
func (s *workflowService) SubmitForApproval(ctx context.Context, reimbursementID, actorUserID string) (*domain.Reimbursement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusDraft, domain.StatusRevisionRequired)
	if err != nil {
		return nil, err
	}

	receipts, err := s.receiptRepo.FindReceiptsByReimbursementID(ctx, reimbursementID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipts for reimbursement %s: %w", reimbursementID, err)
	}

	validation := s.complianceSvc.ValidateReimbursement(ctx, reimbursement, receipts)
	if !validation.IsCompliant {
		logger.Warn("Submission blocked by compliance errors",
			slog.String("reimbursement_id", reimbursementID),
			slog.Int("score", validation.Score))
		return nil, apperrors.NewValidationFailedError(validation.ErrorMessages())
	}

	now := s.now().UTC()
	reimbursement.Status = domain.StatusSubmitted
	reimbursement.SubmittedAt = &now
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = actorUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to submit reimbursement %s: %w", reimbursementID, err)
	}

	s.notify(ctx, reimbursement, actorUserID, "")
	logger.Info("Reimbursement submitted for approval",
		slog.String("reimbursement_id", reimbursementID), slog.Int("score", validation.Score))
	return reimbursement, nil
}

// Approve moves SUBMITTED to APPROVED. The compliance gate is not re-run:
// the submitted content was already validated.
func (s *workflowService) Approve(ctx context.Context, reimbursementID, approverUserID, comment string) (*domain.Reimbursement, error) {
	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusSubmitted)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reimbursement.Status = domain.StatusApproved
	reimbursement.ApprovedAt = &now
	reimbursement.CurrentApprover = approverUserID
	reimbursement.ApprovalComment = comment
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = approverUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to approve reimbursement %s: %w", reimbursementID, err)
	}

	s.notify(ctx, reimbursement, approverUserID, comment)
	return reimbursement, nil
}

// Reject moves SUBMITTED to REJECTED. A reason is required.
func (s *workflowService) Reject(ctx context.Context, reimbursementID, rejectorUserID, reason string) (*domain.Reimbursement, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusSubmitted)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reimbursement.Status = domain.StatusRejected
	reimbursement.RejectedAt = &now
	reimbursement.CurrentApprover = rejectorUserID
	reimbursement.RejectionReason = reason
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = rejectorUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to reject reimbursement %s: %w", reimbursementID, err)
	}

	s.notify(ctx, reimbursement, rejectorUserID, reason)
	return reimbursement, nil
}

// ReturnForRevision moves SUBMITTED to REVISION_REQUIRED.
func (s *workflowService) ReturnForRevision(ctx context.Context, reimbursementID, reviewerUserID, comment string) (*domain.Reimbursement, error) {
	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusSubmitted)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reimbursement.Status = domain.StatusRevisionRequired
	reimbursement.CurrentApprover = reviewerUserID
	reimbursement.RevisionComment = comment
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = reviewerUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to return reimbursement %s for revision: %w", reimbursementID, err)
	}

	s.notify(ctx, reimbursement, reviewerUserID, comment)
	return reimbursement, nil
}

// Resubmit moves REVISION_REQUIRED back to SUBMITTED and increments the
// revision count. Compliance is not re-run on this path.
func (s *workflowService) Resubmit(ctx context.Context, reimbursementID, actorUserID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusRevisionRequired)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reimbursement.Status = domain.StatusSubmitted
	reimbursement.RevisionCount++
	reimbursement.SubmittedAt = &now
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = actorUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to resubmit reimbursement %s: %w", reimbursementID, err)
	}

	s.notify(ctx, reimbursement, actorUserID, "")
	return reimbursement, nil
}

// Cancel moves DRAFT or REVISION_REQUIRED to CANCELLED.
func (s *workflowService) Cancel(ctx context.Context, reimbursementID, actorUserID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusDraft, domain.StatusRevisionRequired)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reimbursement.Status = domain.StatusCancelled
	reimbursement.CancelledAt = &now
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = actorUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to cancel reimbursement %s: %w", reimbursementID, err)
	}

	s.notify(ctx, reimbursement, actorUserID, "")
	return reimbursement, nil
}

// AddReceipt links a receipt to a draft or in-revision reimbursement and
// updates count and totals incrementally.
func (s *workflowService) AddReceipt(ctx context.Context, reimbursementID, receiptID, actorUserID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusDraft, domain.StatusRevisionRequired)
	if err != nil {
		return nil, err
	}

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt %s: %w", receiptID, err)
	}

	now := s.now().UTC()
	if err := s.receiptRepo.LinkReceipt(ctx, receiptID, reimbursementID, actorUserID, now); err != nil {
		return nil, fmt.Errorf("failed to link receipt %s: %w", receiptID, err)
	}

	reimbursement.ReceiptCount++
	reimbursement.TotalAmount = reimbursement.TotalAmount.Add(receipt.EffectiveAmount())
	if receipt.TaxAmount != nil {
		reimbursement.TaxAmount = reimbursement.TaxAmount.Add(*receipt.TaxAmount)
	}
	if receipt.AmountWithoutTax != nil {
		reimbursement.AmountWithoutTax = reimbursement.AmountWithoutTax.Add(*receipt.AmountWithoutTax)
	}
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = actorUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to update reimbursement %s: %w", reimbursementID, err)
	}
	return reimbursement, nil
}

// RemoveReceipt unlinks a receipt and reverses its contribution to the
// totals, clamping at zero so a stale total can never go negative.
func (s *workflowService) RemoveReceipt(ctx context.Context, reimbursementID, receiptID, actorUserID string) (*domain.Reimbursement, error) {
	reimbursement, err := s.requireStatus(ctx, reimbursementID, domain.StatusDraft, domain.StatusRevisionRequired)
	if err != nil {
		return nil, err
	}

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt %s: %w", receiptID, err)
	}

	now := s.now().UTC()
	if err := s.receiptRepo.UnlinkReceipt(ctx, receiptID, reimbursementID, actorUserID, now); err != nil {
		return nil, fmt.Errorf("failed to unlink receipt %s: %w", receiptID, err)
	}

	if reimbursement.ReceiptCount > 0 {
		reimbursement.ReceiptCount--
	}
	reimbursement.TotalAmount = clampNonNegative(reimbursement.TotalAmount.Sub(receipt.EffectiveAmount()))
	if receipt.TaxAmount != nil {
		reimbursement.TaxAmount = clampNonNegative(reimbursement.TaxAmount.Sub(*receipt.TaxAmount))
	}
	if receipt.AmountWithoutTax != nil {
		reimbursement.AmountWithoutTax = clampNonNegative(reimbursement.AmountWithoutTax.Sub(*receipt.AmountWithoutTax))
	}
	reimbursement.LastUpdatedAt = now
	reimbursement.LastUpdatedBy = actorUserID

	if err := s.reimbursementRepo.UpdateReimbursement(ctx, *reimbursement); err != nil {
		return nil, fmt.Errorf("failed to update reimbursement %s: %w", reimbursementID, err)
	}
	return reimbursement, nil
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
