package notifier

import "context"

const ActionDepositCreated = "deposit_created"

type Notification struct {
	Action   string
	UserID   uint
	Metadata map[string]any
}

// Notifier dispatches user-facing notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
