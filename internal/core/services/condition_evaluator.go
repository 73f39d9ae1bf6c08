package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// receiptFieldValue renders the string representation of a receipt field for
// condition evaluation. Amount fields render with the full decimal string,
// not rounded; missing optional fields render as the empty string.
func receiptFieldValue(receipt *domain.Receipt, field domain.RuleField) string {
	switch field {
	case domain.FieldReceiptType:
		return string(receipt.ReceiptType)
	case domain.FieldCategory:
		return string(receipt.Category)
	case domain.FieldSubCategory:
		return receipt.SubCategory
	case domain.FieldMerchant:
		return receipt.Merchant
	case domain.FieldSeller:
		return receipt.Seller
	case domain.FieldBuyer:
		return receipt.Buyer
	case domain.FieldInvoiceCode:
		return receipt.InvoiceCode
	case domain.FieldInvoiceNumber:
		return receipt.InvoiceNumber
	case domain.FieldAmount:
		return decimalString(receipt.Amount)
	case domain.FieldTotalAmount:
		return decimalString(receipt.TotalAmount)
	case domain.FieldTaxAmount:
		return decimalString(receipt.TaxAmount)
	case domain.FieldDepartment:
		return receipt.Department
	case domain.FieldProject:
		return receipt.Project
	case domain.FieldTags:
		return receipt.Tags
	case domain.FieldOCRText:
		return receipt.OCRText
	default:
		return ""
	}
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// coerceNumeric parses s as a decimal for ordered comparisons. Unparsable
// values degrade to zero rather than failing the condition, matching the
// lenient evaluation contract.
func coerceNumeric(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// evaluateCondition checks a single condition against a receipt. It never
// returns an error: malformed literals evaluate false (regex) or compare as
// zero (numeric operators), with a warning logged for observability.
func evaluateCondition(ctx context.Context, receipt *domain.Receipt, cond domain.ClassificationCondition) bool {
	value := receiptFieldValue(receipt, cond.Field)

	switch cond.Operator {
	case domain.OperatorEquals:
		return value == cond.Value
	case domain.OperatorNotEquals:
		return value != cond.Value
	case domain.OperatorContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(cond.Value))
	case domain.OperatorNotContains:
		return !strings.Contains(strings.ToLower(value), strings.ToLower(cond.Value))
	case domain.OperatorStartsWith:
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(cond.Value))
	case domain.OperatorEndsWith:
		return strings.HasSuffix(strings.ToLower(value), strings.ToLower(cond.Value))
	case domain.OperatorGreaterThan:
		return coerceNumeric(value).GreaterThan(coerceNumeric(cond.Value))
	case domain.OperatorLessThan:
		return coerceNumeric(value).LessThan(coerceNumeric(cond.Value))
	case domain.OperatorRegex:
		re, err := regexp.Compile(cond.Value)
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Invalid regex in classification condition",
				slog.String("pattern", cond.Value), slog.String("error", err.Error()))
			return false
		}
		return re.MatchString(value)
	case domain.OperatorIn:
		for _, elem := range strings.Split(cond.Value, ",") {
			if value == strings.TrimSpace(elem) {
				return true
			}
		}
		return false
	default:
		middleware.GetLoggerFromCtx(ctx).Warn("Unknown condition operator",
			slog.String("operator", string(cond.Operator)))
		return false
	}
}

// ruleMatches reports whether all of a rule's conditions hold for the
// receipt. An empty condition list matches everything, which is how
// catch-all rules are expressed.
func ruleMatches(ctx context.Context, receipt *domain.Receipt, rule *domain.ClassificationRule) bool {
	for _, cond := range rule.Conditions {
		if !evaluateCondition(ctx, receipt, cond) {
			return false
		}
	}
	return true
}
