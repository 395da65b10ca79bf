package deposit

import (
	"strconv"
	"time"

	"github.com/ledgerline/depositd/internal/domain/shared/events"
)

const EventTypeDepositCreated = "deposit.created"

// CreatedEvent announces a newly recorded deposit request.
type CreatedEvent struct {
	events.BaseEvent
	DepositID   uint
	UserID      uint
	TokenSymbol string
	Amount      string
	Status      string
	Metadata    map[string]any
}

func NewCreatedEvent(depositID, userID uint, tokenSymbol, amount, status string, metadata map[string]any, at time.Time) *CreatedEvent {
	return &CreatedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(depositID), 10),
			EventType:   EventTypeDepositCreated,
			OccurredAt:  at,
		},
		DepositID:   depositID,
		UserID:      userID,
		TokenSymbol: tokenSymbol,
		Amount:      amount,
		Status:      status,
		Metadata:    metadata,
	}
}
