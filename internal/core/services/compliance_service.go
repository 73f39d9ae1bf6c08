package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	// amountTolerance is the rounding slack allowed between a
	// reimbursement's total and the sum of its receipts.
	amountTolerance = "0.01"

	// wideDateRangeDays is the widest receipt date span accepted without a
	// warning.
	wideDateRangeDays = 30

	scoreErrorPenalty   = 20
	scoreWarningPenalty = 5
)

// complianceService runs the fixed pipeline of compliance checks. Each
// check appends to the shared issue and warning lists; a panicking check is
// contained so the remaining checks still run.
type complianceService struct{}

// NewComplianceService creates a new ComplianceService.
func NewComplianceService() portssvc.ComplianceSvcFacade {
	return &complianceService{}
}

var _ portssvc.ComplianceSvcFacade = (*complianceService)(nil)

// ValidateReimbursement runs all checks and computes the compliance score.
// Warnings never block compliance; only ERROR-severity issues do.
func (s *complianceService) ValidateReimbursement(ctx context.Context, reimbursement *domain.Reimbursement, receipts []domain.Receipt) *domain.ValidationResult {
	result := &domain.ValidationResult{
		Issues:   []domain.Issue{},
		Warnings: []domain.Warning{},
	}

	checks := []func(ctx context.Context, r *domain.Reimbursement, receipts []domain.Receipt, result *domain.ValidationResult){
		s.checkBasicInfo,
		s.checkReceipts,
		s.checkAmountConsistency,
		s.checkTimePeriod,
		s.checkDuplicates,
	}
	for _, check := range checks {
		s.runIsolated(ctx, check, reimbursement, receipts, result)
	}

	errorCount := 0
	for _, issue := range result.Issues {
		if issue.Severity == domain.SeverityError {
			errorCount++
		}
	}

	score := 100 - scoreErrorPenalty*errorCount - scoreWarningPenalty*len(result.Warnings)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	result.Score = score
	result.IsCompliant = errorCount == 0

	return result
}

// runIsolated executes a single check, containing panics so one broken
// check cannot suppress the findings of the others.
func (s *complianceService) runIsolated(ctx context.Context, check func(context.Context, *domain.Reimbursement, []domain.Receipt, *domain.ValidationResult), reimbursement *domain.Reimbursement, receipts []domain.Receipt, result *domain.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Compliance check panicked",
				slog.Any("panic", r))
		}
	}()
	check(ctx, reimbursement, receipts, result)
}

// checkBasicInfo validates the reimbursement header fields.
func (s *complianceService) checkBasicInfo(_ context.Context, reimbursement *domain.Reimbursement, _ []domain.Receipt, result *domain.ValidationResult) {
	if strings.TrimSpace(reimbursement.Title) == "" {
		result.Issues = append(result.Issues, domain.Issue{
			Code:     domain.IssueEmptyTitle,
			Message:  "reimbursement title must not be blank",
			Severity: domain.SeverityError,
		})
	}
	if !reimbursement.TotalAmount.IsPositive() {
		result.Issues = append(result.Issues, domain.Issue{
			Code:     domain.IssueInvalidAmount,
			Message:  fmt.Sprintf("total amount must be greater than zero, got %s", reimbursement.TotalAmount.String()),
			Severity: domain.SeverityError,
		})
	}
	if strings.TrimSpace(reimbursement.Applicant) == "" {
		result.Issues = append(result.Issues, domain.Issue{
			Code:     domain.IssueEmptyApplicant,
			Message:  "applicant must not be blank",
			Severity: domain.SeverityError,
		})
	}
}

// typeRuleFor resolves the compliance rule set for a receipt. Unclassified
// or unknown types fall back to the OTHER rule set.
func typeRuleFor(receipt *domain.Receipt) domain.ReceiptTypeRule {
	if rule, ok := domain.ReceiptTypeRules[receipt.ReceiptType]; ok {
		return rule
	}
	return domain.ReceiptTypeRules[domain.ReceiptTypeOther]
}

// checkReceipts validates receipt presence and per-type required fields.
// Amount and date violations are errors; descriptive context violations are
// warnings. Missing image path and empty OCR text warn regardless of type.
func (s *complianceService) checkReceipts(_ context.Context, _ *domain.Reimbursement, receipts []domain.Receipt, result *domain.ValidationResult) {
	if len(receipts) == 0 {
		result.Issues = append(result.Issues, domain.Issue{
			Code:     domain.IssueNoReceipts,
			Message:  "a reimbursement must contain at least one receipt",
			Severity: domain.SeverityError,
		})
		return
	}

	missingAmount := []string{}
	missingDate := []string{}
	missingMerchant := []string{}
	missingAttendees := []string{}
	missingDescription := []string{}
	missingImage := []string{}
	emptyOCR := []string{}

	for i := range receipts {
		receipt := &receipts[i]
		rule := typeRuleFor(receipt)

		for _, field := range rule.RequiredFields {
			switch field {
			case domain.RequiredFieldAmount:
				if receipt.Amount == nil && receipt.TotalAmount == nil {
					missingAmount = append(missingAmount, receipt.ReceiptID)
				}
			case domain.RequiredFieldDate:
				if receipt.InvoiceDate == nil {
					missingDate = append(missingDate, receipt.ReceiptID)
				}
			case domain.RequiredFieldMerchant:
				if strings.TrimSpace(receipt.Merchant) == "" {
					missingMerchant = append(missingMerchant, receipt.ReceiptID)
				}
			case domain.RequiredFieldAttendees:
				if strings.TrimSpace(receipt.Attendees) == "" {
					missingAttendees = append(missingAttendees, receipt.ReceiptID)
				}
			case domain.RequiredFieldItemDescription:
				if strings.TrimSpace(receipt.ItemDescription) == "" {
					missingDescription = append(missingDescription, receipt.ReceiptID)
				}
			}
		}

		if strings.TrimSpace(receipt.FilePath) == "" {
			missingImage = append(missingImage, receipt.ReceiptID)
		}
		if strings.TrimSpace(receipt.OCRText) == "" {
			emptyOCR = append(emptyOCR, receipt.ReceiptID)
		}
	}

	if len(missingAmount) > 0 {
		result.Issues = append(result.Issues, domain.Issue{
			Code:     domain.IssueMissingAmount,
			Message:  fmt.Sprintf("%d receipt(s) have no amount", len(missingAmount)),
			Severity: domain.SeverityError,
			Items:    missingAmount,
		})
	}
	if len(missingDate) > 0 {
		result.Issues = append(result.Issues, domain.Issue{
			Code:     domain.IssueMissingDate,
			Message:  fmt.Sprintf("%d receipt(s) have no invoice date", len(missingDate)),
			Severity: domain.SeverityError,
			Items:    missingDate,
		})
	}
	if len(missingMerchant) > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:       domain.WarningMissingMerchant,
			Message:    fmt.Sprintf("%d receipt(s) have no merchant name", len(missingMerchant)),
			Suggestion: "add the merchant name from the receipt image",
		})
	}
	if len(missingAttendees) > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:       domain.WarningMissingAttendees,
			Message:    fmt.Sprintf("%d dining receipt(s) have no attendee list", len(missingAttendees)),
			Suggestion: "list the attendees of the business meal",
		})
	}
	if len(missingDescription) > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:       domain.WarningMissingItemDescription,
			Message:    fmt.Sprintf("%d receipt(s) have no item description", len(missingDescription)),
			Suggestion: "describe the purchased items",
		})
	}
	if len(missingImage) > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:    domain.WarningMissingImage,
			Message: fmt.Sprintf("%d receipt(s) have no image attached", len(missingImage)),
		})
	}
	if len(emptyOCR) > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:       domain.WarningEmptyOCRText,
			Message:    fmt.Sprintf("%d receipt(s) have no recognized text", len(emptyOCR)),
			Suggestion: "re-run text recognition or enter the details manually",
		})
	}
}

// checkAmountConsistency compares the reimbursement total to the sum of
// receipt amounts and flags spending over the per-type single and monthly
// limits. All findings are warnings: manual total adjustment is legitimate
// and limits are advisory at this stage.
func (s *complianceService) checkAmountConsistency(_ context.Context, reimbursement *domain.Reimbursement, receipts []domain.Receipt, result *domain.ValidationResult) {
	tolerance := decimal.RequireFromString(amountTolerance)

	sum := decimal.Zero
	overLimit := []string{}
	typeTotals := make(map[domain.ReceiptType]decimal.Decimal)
	typeOrder := []domain.ReceiptType{}
	for i := range receipts {
		receipt := &receipts[i]
		effective := receipt.EffectiveAmount()
		sum = sum.Add(effective)

		rule := typeRuleFor(receipt)
		if rule.SingleLimit.IsPositive() && effective.GreaterThan(rule.SingleLimit) {
			overLimit = append(overLimit, receipt.ReceiptID)
		}

		if _, seen := typeTotals[receipt.ReceiptType]; !seen {
			typeOrder = append(typeOrder, receipt.ReceiptType)
		}
		typeTotals[receipt.ReceiptType] = typeTotals[receipt.ReceiptType].Add(effective)
	}

	if reimbursement.TotalAmount.Sub(sum).Abs().GreaterThan(tolerance) {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code: domain.WarningAmountMismatch,
			Message: fmt.Sprintf("reimbursement total %s does not match receipt sum %s",
				reimbursement.TotalAmount.String(), sum.String()),
			Suggestion: "verify manual adjustments against the attached receipts",
		})
	}
	if len(overLimit) > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code: domain.WarningExceedSingleLimit,
			Message: fmt.Sprintf("%d receipt(s) exceed their single-item limit: %s",
				len(overLimit), strings.Join(overLimit, ", ")),
			Suggestion: "attach an approval note for over-limit items",
		})
	}

	for _, receiptType := range typeOrder {
		rule := typeRuleFor(&domain.Receipt{ReceiptType: receiptType})
		total := typeTotals[receiptType]
		if rule.MonthlyLimit.IsPositive() && total.GreaterThan(rule.MonthlyLimit) {
			result.Warnings = append(result.Warnings, domain.Warning{
				Code: domain.WarningExceedMonthlyLimit,
				Message: fmt.Sprintf("%s spending of %s exceeds the monthly limit of %s",
					rule.Description, total.String(), rule.MonthlyLimit.String()),
				Suggestion: fmt.Sprintf("keep %s expenses within the monthly allowance or attach an approval note", string(rule.Category)),
			})
		}
	}
}

// receiptDate picks the date a receipt is judged by for time-window checks.
func receiptDate(receipt *domain.Receipt) (time.Time, bool) {
	if receipt.InvoiceDate != nil {
		return *receipt.InvoiceDate, true
	}
	if !receipt.CreatedAt.IsZero() {
		return receipt.CreatedAt, true
	}
	return time.Time{}, false
}

// checkTimePeriod flags receipt sets that span more than 30 days and
// receipts dated outside the reimbursement's creation month.
func (s *complianceService) checkTimePeriod(_ context.Context, reimbursement *domain.Reimbursement, receipts []domain.Receipt, result *domain.ValidationResult) {
	var earliest, latest time.Time
	outOfMonth := 0

	for i := range receipts {
		date, ok := receiptDate(&receipts[i])
		if !ok {
			continue
		}
		if earliest.IsZero() || date.Before(earliest) {
			earliest = date
		}
		if latest.IsZero() || date.After(latest) {
			latest = date
		}
		if date.Year() != reimbursement.CreatedAt.Year() || date.Month() != reimbursement.CreatedAt.Month() {
			outOfMonth++
		}
	}

	if !earliest.IsZero() && latest.Sub(earliest) > wideDateRangeDays*24*time.Hour {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code: domain.WarningWideDateRange,
			Message: fmt.Sprintf("receipt dates span %d days, more than %d",
				int(latest.Sub(earliest).Hours()/24), wideDateRangeDays),
			Suggestion: "split the claim into separate periods",
		})
	}
	if outOfMonth > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:    domain.WarningOutOfMonth,
			Message: fmt.Sprintf("%d receipt(s) are dated outside the claim month", outOfMonth),
		})
	}
}

// checkDuplicates groups receipts by (amount, merchant, date) and reports
// groups with more than one member.
func (s *complianceService) checkDuplicates(_ context.Context, _ *domain.Reimbursement, receipts []domain.Receipt, result *domain.ValidationResult) {
	groups := make(map[string]int)
	order := []string{}

	for i := range receipts {
		receipt := &receipts[i]
		date := ""
		if receipt.InvoiceDate != nil {
			date = receipt.InvoiceDate.Format("2006-01-02")
		}
		key := fmt.Sprintf("%s|%s|%s", receipt.EffectiveAmount().String(), receipt.Merchant, date)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key]++
	}

	duplicates := []string{}
	for _, key := range order {
		if groups[key] > 1 {
			duplicates = append(duplicates, key)
		}
	}
	if len(duplicates) > 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:       domain.WarningDuplicateReceipts,
			Message:    "possible duplicate receipts: " + strings.Join(duplicates, "; "),
			Suggestion: "remove duplicated receipts before submitting",
		})
	}
}
