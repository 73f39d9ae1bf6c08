package dto

import "github.com/expenso-labs/receipt_workflow_app/internal/core/domain"

// IssueResponse is the transport representation of a compliance issue.
type IssueResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity string   `json:"severity"`
	Items    []string `json:"items,omitempty"`
}

// WarningResponse is the transport representation of a compliance warning.
type WarningResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResultResponse is the transport representation of a compliance
// validation run.
type ValidationResultResponse struct {
	IsCompliant bool              `json:"isCompliant"`
	Issues      []IssueResponse   `json:"issues"`
	Warnings    []WarningResponse `json:"warnings"`
	Score       int               `json:"score"`
}

// ToValidationResultResponse converts a domain.ValidationResult to its
// transport representation.
func ToValidationResultResponse(v *domain.ValidationResult) ValidationResultResponse {
	issues := make([]IssueResponse, len(v.Issues))
	for i, issue := range v.Issues {
		issues[i] = IssueResponse{
			Code:     issue.Code,
			Message:  issue.Message,
			Severity: string(issue.Severity),
			Items:    issue.Items,
		}
	}
	warnings := make([]WarningResponse, len(v.Warnings))
	for i, warning := range v.Warnings {
		warnings[i] = WarningResponse{
			Code:       warning.Code,
			Message:    warning.Message,
			Suggestion: warning.Suggestion,
		}
	}
	return ValidationResultResponse{
		IsCompliant: v.IsCompliant,
		Issues:      issues,
		Warnings:    warnings,
		Score:       v.Score,
	}
}
