package auditsink

import "context"

const (
	ActionCreateDeposit = "create_deposit"
	ActionUpdateDeposit = "update_deposit"
	ActionDeleteDeposit = "delete_deposit"
	ActionListDeposits  = "list_deposits"

	ResourceTypeDeposit = "deposit"
)

// Event describes a committed change. Before and After are JSON-serializable
// snapshots; either may be nil.
type Event struct {
	Action       string
	ResourceType string
	ResourceID   uint
	// UserID is the owner whose cached views the change affects; 0 if none.
	UserID      uint
	Before      any
	After       any
	Description string
}

// Sink records audit events. It is only called after the change committed.
type Sink interface {
	Record(ctx context.Context, event Event) error
}
