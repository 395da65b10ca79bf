package notification

import (
	"context"
	"fmt"

	"github.com/ledgerline/depositd/internal/application/deposit/notifier"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/shared/events"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// EventNotifier turns notifications into domain events on the in-process
// dispatcher. Delivery happens asynchronously in the subscribed handlers.
type EventNotifier struct {
	publisher events.EventPublisher
	clock     biztime.Clock
	logger    logger.Interface
}

var _ notifier.Notifier = (*EventNotifier)(nil)

func NewEventNotifier(publisher events.EventPublisher, clock biztime.Clock, logger logger.Interface) *EventNotifier {
	return &EventNotifier{
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

func (n *EventNotifier) Notify(ctx context.Context, msg notifier.Notification) error {
	switch msg.Action {
	case notifier.ActionDepositCreated:
		event := deposit.NewCreatedEvent(
			metaUint(msg.Metadata, "deposit_id"),
			msg.UserID,
			metaString(msg.Metadata, "token_symbol"),
			metaString(msg.Metadata, "amount"),
			metaString(msg.Metadata, "status"),
			msg.Metadata,
			n.clock(),
		)
		if err := n.publisher.Publish(event); err != nil {
			return fmt.Errorf("failed to publish %s: %w", event.GetEventType(), err)
		}
		n.logger.Debugw("deposit created event published", "deposit_id", event.DepositID, "user_id", msg.UserID)
		return nil
	default:
		return fmt.Errorf("unsupported notification action %q", msg.Action)
	}
}

func metaString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

func metaUint(m map[string]any, key string) uint {
	switch v := m[key].(type) {
	case uint:
		return v
	case uint64:
		return uint(v)
	case int:
		if v > 0 {
			return uint(v)
		}
	case float64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}
