package dto

// ClassificationResult reports the outcome of classifying one receipt.
// RuleApplied is nil when the default classification path ran.
type ClassificationResult struct {
	ReceiptID     string        `json:"receiptID"`
	RuleApplied   *RuleResponse `json:"ruleApplied,omitempty"`
	ArchiveNumber string        `json:"archiveNumber"`
	Category      string        `json:"category"`
	Processed     bool          `json:"processed"`
}

// BatchClassificationItem is the per-receipt entry of a batch result. Error
// is empty on success.
type BatchClassificationItem struct {
	ReceiptID     string `json:"receiptID"`
	ArchiveNumber string `json:"archiveNumber,omitempty"`
	RuleID        string `json:"ruleID,omitempty"`
	Error         string `json:"error,omitempty"`
}

// BatchClassificationResult aggregates a batch classification run. A single
// item's failure never fails the batch.
type BatchClassificationResult struct {
	Total      int                       `json:"total"`
	Classified int                       `json:"classified"`
	Failed     int                       `json:"failed"`
	Items      []BatchClassificationItem `json:"items"`
}

// BatchClassifyRequest lists the receipts to classify.
type BatchClassifyRequest struct {
	ReceiptIDs []string `json:"receiptIDs" binding:"required,min=1"`
}
