package usecases

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// recordAudit hands a committed change to the sink. A failing sink is logged
// and never surfaces to the caller.
func recordAudit(ctx context.Context, sink auditsink.Sink, log logger.Interface, event auditsink.Event) {
	if sink == nil {
		return
	}
	if err := sink.Record(ctx, event); err != nil {
		log.Warnw("failed to record audit event",
			"action", event.Action,
			"resource_id", event.ResourceID,
			"error", err,
		)
	}
}
