package services

import (
	"context"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// Notifier delivers status-change events to the notification collaborator.
// Delivery is best-effort; the workflow never fails a transition because a
// notification could not be sent.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, event domain.StatusChangeEvent)
}
