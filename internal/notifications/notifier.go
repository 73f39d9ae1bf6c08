package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// hubNotifier broadcasts workflow status changes to connected websocket
// clients. Delivery is best-effort: a full broadcast channel drops the event
// rather than stalling the workflow transition that produced it.
type hubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a Notifier backed by the websocket hub.
func NewHubNotifier(hub *Hub) portssvc.Notifier {
	return &hubNotifier{hub: hub}
}

var _ portssvc.Notifier = (*hubNotifier)(nil)

func (n *hubNotifier) NotifyStatusChange(ctx context.Context, event domain.StatusChangeEvent) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warn("Failed to encode status change event",
			slog.String("reimbursement_id", event.ReimbursementID), slog.String("error", err.Error()))
		return
	}

	select {
	case n.hub.Broadcast <- payload:
		logger.Info("Status change broadcast",
			slog.String("reimbursement_id", event.ReimbursementID),
			slog.String("status", string(event.Status)))
	default:
		logger.Warn("Dropped status change event: broadcast channel full",
			slog.String("reimbursement_id", event.ReimbursementID))
	}
}
