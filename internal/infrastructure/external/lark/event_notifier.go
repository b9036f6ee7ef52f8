package lark

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/event"
	"go.uber.org/zap"
)

// EventNotifier relays console mutation events to the finance chat.
// Handle has the dispatcher handler signature.
type EventNotifier struct {
	messenger port.ChatMessenger
	chatID    string
	logger    *zap.Logger
}

// NewEventNotifier creates a new EventNotifier posting to chatID
func NewEventNotifier(messenger port.ChatMessenger, chatID string, logger *zap.Logger) *EventNotifier {
	return &EventNotifier{
		messenger: messenger,
		chatID:    chatID,
		logger:    logger,
	}
}

// Handle posts evt to the chat. Events finance staff do not act on are skipped.
func (n *EventNotifier) Handle(ctx context.Context, evt *event.Event) error {
	text, ok := FormatEvent(evt)
	if !ok {
		n.logger.Debug("Skipping event", zap.String("event_type", evt.Type.String()))
		return nil
	}

	if err := n.messenger.SendText(ctx, n.chatID, text); err != nil {
		return fmt.Errorf("failed to relay %s: %w", evt.Type, err)
	}
	return nil
}

// FormatEvent renders the chat text for evt
func FormatEvent(evt *event.Event) (string, bool) {
	if evt == nil {
		return "", false
	}

	var b strings.Builder
	switch evt.Type {
	case event.TypeClaimApproved:
		b.WriteString("Claim approved")
	case event.TypeDisputeApproved:
		b.WriteString("Dispute approved")
	case event.TypeRefundCreated:
		b.WriteString("Refund created")
	case event.TypeRefundPaid:
		b.WriteString("Refund paid")
	default:
		return "", false
	}

	if evt.RecordID != "" {
		fmt.Fprintf(&b, ": %s", evt.RecordID)
	}
	if stage := evt.GetPayloadString("stage"); stage != "" {
		fmt.Fprintf(&b, " (%s)", stage)
	}
	if amount := evt.GetPayloadFloat("amount"); amount > 0 {
		fmt.Fprintf(&b, "\nAmount: $%.2f", amount)
	}
	if run := evt.GetPayloadString("payroll_run_id"); run != "" {
		fmt.Fprintf(&b, "\nPayroll run: %s", run)
	}
	return b.String(), true
}
