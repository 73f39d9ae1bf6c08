package domain

import "github.com/shopspring/decimal"

// IssueSeverity grades a compliance finding.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "ERROR"
	SeverityWarning IssueSeverity = "WARNING"
	SeverityInfo    IssueSeverity = "INFO"
)

// Issue codes produced by the compliance validator. ERROR-severity issues
// block submission; warnings never do.
const (
	IssueEmptyTitle     = "EMPTY_TITLE"
	IssueInvalidAmount  = "INVALID_AMOUNT"
	IssueEmptyApplicant = "EMPTY_APPLICANT"
	IssueNoReceipts     = "NO_RECEIPTS"
	IssueMissingAmount  = "MISSING_AMOUNT"
	IssueMissingDate    = "MISSING_DATE"

	WarningMissingMerchant        = "MISSING_MERCHANT"
	WarningMissingAttendees       = "MISSING_ATTENDEES"
	WarningMissingItemDescription = "MISSING_ITEM_DESCRIPTION"
	WarningMissingImage           = "MISSING_IMAGE"
	WarningEmptyOCRText           = "EMPTY_OCR_TEXT"
	WarningAmountMismatch         = "AMOUNT_MISMATCH"
	WarningExceedSingleLimit      = "EXCEED_SINGLE_LIMIT"
	WarningExceedMonthlyLimit     = "EXCEED_MONTHLY_LIMIT"
	WarningWideDateRange          = "WIDE_DATE_RANGE"
	WarningOutOfMonth             = "OUT_OF_MONTH"
	WarningDuplicateReceipts      = "DUPLICATE_RECEIPTS"
)

// Issue is a single blocking (or informational) compliance finding.
type Issue struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Severity IssueSeverity `json:"severity"`
	Items    []string      `json:"items,omitempty"` // affected receipt IDs
}

// Warning is a non-blocking compliance finding, optionally with a suggestion.
type Warning struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult is the outcome of running the compliance pipeline over a
// reimbursement and its receipts.
type ValidationResult struct {
	IsCompliant bool      `json:"isCompliant"`
	Issues      []Issue   `json:"issues"`
	Warnings    []Warning `json:"warnings"`
	Score       int       `json:"score"` // 0-100
}

// ErrorMessages returns the messages of all ERROR-severity issues, in order.
func (v *ValidationResult) ErrorMessages() []string {
	var msgs []string
	for _, issue := range v.Issues {
		if issue.Severity == SeverityError {
			msgs = append(msgs, issue.Message)
		}
	}
	return msgs
}

// ReceiptTypeRule is the fixed per-type compliance rule set: default
// category, spend limits and the fields a receipt of that type must carry.
type ReceiptTypeRule struct {
	Category       ReceiptCategory
	MonthlyLimit   decimal.Decimal
	SingleLimit    decimal.Decimal
	RequiredFields []string
	Description    string
}

// Required field names used in ReceiptTypeRule tables. Amount and date are
// legally required and violations are errors; descriptive context fields
// are advisory and violations are warnings.
const (
	RequiredFieldAmount          = "amount"
	RequiredFieldDate            = "date"
	RequiredFieldMerchant        = "merchant"
	RequiredFieldAttendees       = "attendees"
	RequiredFieldItemDescription = "itemDescription"
)

// ReceiptTypeRules maps every receipt type to its compliance rule set.
var ReceiptTypeRules = map[ReceiptType]ReceiptTypeRule{
	ReceiptTypeTransport: {
		Category:       CategoryTransportation,
		MonthlyLimit:   decimal.NewFromInt(5000),
		SingleLimit:    decimal.NewFromInt(500),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate},
		Description:    "Local transport",
	},
	ReceiptTypeTaxi: {
		Category:       CategoryTransportation,
		MonthlyLimit:   decimal.NewFromInt(2000),
		SingleLimit:    decimal.NewFromInt(200),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate},
		Description:    "Taxi and ride hailing",
	},
	ReceiptTypeTrainTicket: {
		Category:       CategoryTransportation,
		MonthlyLimit:   decimal.NewFromInt(8000),
		SingleLimit:    decimal.NewFromInt(1500),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate},
		Description:    "Rail travel",
	},
	ReceiptTypeFlight: {
		Category:       CategoryTransportation,
		MonthlyLimit:   decimal.NewFromInt(20000),
		SingleLimit:    decimal.NewFromInt(5000),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate, RequiredFieldMerchant},
		Description:    "Air travel",
	},
	ReceiptTypeDining: {
		Category:       CategoryFood,
		MonthlyLimit:   decimal.NewFromInt(3000),
		SingleLimit:    decimal.NewFromInt(300),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate, RequiredFieldMerchant, RequiredFieldAttendees},
		Description:    "Business meals",
	},
	ReceiptTypeAccommodation: {
		Category:       CategoryAccommodation,
		MonthlyLimit:   decimal.NewFromInt(8000),
		SingleLimit:    decimal.NewFromInt(800),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate, RequiredFieldMerchant},
		Description:    "Hotels and lodging",
	},
	ReceiptTypeOffice: {
		Category:       CategoryOffice,
		MonthlyLimit:   decimal.NewFromInt(5000),
		SingleLimit:    decimal.NewFromInt(1000),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate, RequiredFieldItemDescription},
		Description:    "Office supplies",
	},
	ReceiptTypeCommunication: {
		Category:       CategoryOther,
		MonthlyLimit:   decimal.NewFromInt(600),
		SingleLimit:    decimal.NewFromInt(200),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate},
		Description:    "Phone and internet",
	},
	ReceiptTypeVATInvoice: {
		Category:       CategoryExpense,
		MonthlyLimit:   decimal.NewFromInt(50000),
		SingleLimit:    decimal.NewFromInt(10000),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate, RequiredFieldMerchant},
		Description:    "VAT invoices",
	},
	ReceiptTypeOther: {
		Category:       CategoryOther,
		MonthlyLimit:   decimal.NewFromInt(2000),
		SingleLimit:    decimal.NewFromInt(500),
		RequiredFields: []string{RequiredFieldAmount, RequiredFieldDate, RequiredFieldItemDescription},
		Description:    "Uncategorized expenses",
	},
}
