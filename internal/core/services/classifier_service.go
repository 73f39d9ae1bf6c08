package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// classifierService applies classification rules to receipts.
type classifierService struct {
	receiptRepo portsrepo.ReceiptRepositoryWithTx
	ruleRepo    portsrepo.RuleReader
	archiveSvc  portssvc.ArchiveNumberSvcFacade
	now         func() time.Time
}

// NewClassifierService creates a new ClassifierService.
func NewClassifierService(receiptRepo portsrepo.ReceiptRepositoryWithTx, ruleRepo portsrepo.RuleReader, archiveSvc portssvc.ArchiveNumberSvcFacade) portssvc.ClassifierSvcFacade {
	return &classifierService{
		receiptRepo: receiptRepo,
		ruleRepo:    ruleRepo,
		archiveSvc:  archiveSvc,
		now:         time.Now,
	}
}

var _ portssvc.ClassifierSvcFacade = (*classifierService)(nil)

// ClassifyReceipt applies the first fully matching enabled rule to the
// receipt, or the default classification when none matches. Rules arrive
// from the repository ordered by priority then insertion order; evaluation
// short-circuits on the first match.
func (s *classifierService) ClassifyReceipt(ctx context.Context, receiptID string, actorUserID string) (*dto.ClassificationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt %s for classification: %w", receiptID, err)
	}

	rules, err := s.ruleRepo.ListEnabledRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled rules: %w", err)
	}

	var winner *domain.ClassificationRule
	for i := range rules {
		if ruleMatches(ctx, receipt, &rules[i]) {
			winner = &rules[i]
			break
		}
	}

	// Actions mutate a copy; the stored receipt only changes on a
	// successful commit.
	updated := *receipt

	// Serial consumption and the receipt update share one transaction: a
	// failed update rolls the serial back, so a serial can never be spent
	// without the receipt reflecting it.
	tx, err := s.receiptRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin classification for receipt %s: %w", receiptID, err)
	}
	defer s.receiptRepo.Rollback(ctx, tx) // no-op once committed

	if winner != nil {
		logger.Info("Rule matched",
			slog.String("receipt_id", receiptID),
			slog.String("rule_id", winner.RuleID),
			slog.Int("priority", winner.Priority))
		if err := s.applyActions(ctx, tx, &updated, winner); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	updated.Processed = true
	updated.ProcessedAt = &now

	// An archive number, once assigned, is kept. Re-classifying an already
	// processed receipt must not consume a second serial.
	if !updated.HasArchiveNumber() {
		archiveNumber, err := s.archiveSvc.GenerateInTx(ctx, tx, &updated)
		if err != nil {
			return nil, fmt.Errorf("failed to generate archive number for receipt %s: %w", receiptID, err)
		}
		updated.ArchiveNumber = &archiveNumber
	}

	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actorUserID

	if err := s.receiptRepo.UpdateReceiptInTx(ctx, tx, updated); err != nil {
		return nil, fmt.Errorf("failed to persist classified receipt %s: %w", receiptID, err)
	}
	if err := s.receiptRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit classification for receipt %s: %w", receiptID, err)
	}

	result := &dto.ClassificationResult{
		ReceiptID:     updated.ReceiptID,
		ArchiveNumber: *updated.ArchiveNumber,
		Category:      string(updated.Category),
		Processed:     true,
	}
	if winner != nil {
		ruleResp := dto.ToRuleResponse(winner)
		result.RuleApplied = &ruleResp
	}
	return result, nil
}

// applyActions runs the rule's actions in listed order against the receipt
// copy. Invalid enum literals leave the targeted field unchanged; a warning
// is logged so misconfigured rules are visible. Archive-number generation
// joins the caller's transaction.
func (s *classifierService) applyActions(ctx context.Context, tx pgx.Tx, receipt *domain.Receipt, rule *domain.ClassificationRule) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, action := range rule.Actions {
		switch action.Type {
		case domain.ActionSetCategory:
			if category, ok := domain.ParseReceiptCategory(action.Value); ok {
				receipt.Category = category
			} else {
				logger.Warn("Ignoring set-category action with unknown category",
					slog.String("rule_id", rule.RuleID), slog.String("value", action.Value))
			}
		case domain.ActionSetSubCategory:
			receipt.SubCategory = action.Value
		case domain.ActionSetExpenseType:
			if receiptType, ok := domain.ParseReceiptType(action.Value); ok {
				receipt.ReceiptType = receiptType
			} else {
				logger.Warn("Ignoring set-expense-type action with unknown type",
					slog.String("rule_id", rule.RuleID), slog.String("value", action.Value))
			}
		case domain.ActionSetDepartment:
			receipt.Department = action.Value
		case domain.ActionSetProject:
			receipt.Project = action.Value
		case domain.ActionAppendTag:
			appendTag(receipt, action.Value)
		case domain.ActionArchive:
			if !receipt.Archived {
				archivedAt := s.now().UTC()
				receipt.Archived = true
				receipt.ArchivedAt = &archivedAt
			}
		case domain.ActionGenerateArchiveNumber:
			if !receipt.HasArchiveNumber() {
				archiveNumber, err := s.archiveSvc.GenerateInTx(ctx, tx, receipt)
				if err != nil {
					return fmt.Errorf("failed to generate archive number for receipt %s: %w", receipt.ReceiptID, err)
				}
				receipt.ArchiveNumber = &archiveNumber
			}
		default:
			logger.Warn("Ignoring unknown rule action type",
				slog.String("rule_id", rule.RuleID), slog.String("type", string(action.Type)))
		}
	}
	return nil
}

// appendTag adds a tag to the receipt's comma-joined tag set, skipping
// duplicates and empty values.
func appendTag(receipt *domain.Receipt, tag string) {
	if tag == "" {
		return
	}
	if receipt.Tags == "" {
		receipt.Tags = tag
		return
	}
	for _, existing := range strings.Split(receipt.Tags, ",") {
		if strings.TrimSpace(existing) == tag {
			return
		}
	}
	receipt.Tags = receipt.Tags + "," + tag
}

// BatchClassifyReceipts classifies receipts sequentially. Each item's
// persistence is a separate atomic unit, so cancellation between items
// leaves already committed results intact, and a single item's failure is
// recorded without aborting the rest.
func (s *classifierService) BatchClassifyReceipts(ctx context.Context, receiptIDs []string, actorUserID string) (*dto.BatchClassificationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.BatchClassificationResult{
		Total: len(receiptIDs),
		Items: make([]dto.BatchClassificationItem, 0, len(receiptIDs)),
	}

	for _, receiptID := range receiptIDs {
		if err := ctx.Err(); err != nil {
			logger.Warn("Batch classification cancelled",
				slog.Int("completed", result.Classified+result.Failed), slog.Int("total", result.Total))
			return result, err
		}

		itemResult, err := s.ClassifyReceipt(ctx, receiptID, actorUserID)
		if err != nil {
			logger.Warn("Failed to classify receipt in batch",
				slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
			result.Failed++
			result.Items = append(result.Items, dto.BatchClassificationItem{
				ReceiptID: receiptID,
				Error:     err.Error(),
			})
			continue
		}

		item := dto.BatchClassificationItem{
			ReceiptID:     receiptID,
			ArchiveNumber: itemResult.ArchiveNumber,
		}
		if itemResult.RuleApplied != nil {
			item.RuleID = itemResult.RuleApplied.RuleID
		}
		result.Classified++
		result.Items = append(result.Items, item)
	}

	return result, nil
}
