package service

import (
	"context"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/event"
)

// publish forwards evt to events, tagging it with the request id. A failed
// publish never fails the user's action.
func publish(ctx context.Context, events port.EventPublisher, logger Logger, evt *event.Event) {
	if events == nil {
		return
	}
	if session, ok := port.SessionFrom(ctx); ok && session.RequestID != "" {
		evt = evt.WithRequestID(session.RequestID)
	}
	if err := events.Publish(ctx, evt); err != nil {
		logger.Error("Failed to publish event", "event_type", evt.Type, "record_id", evt.RecordID, "error", err)
	}
}
