package listcache

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/deposit/dto"
)

// AllStatuses is the status key used for an unfiltered user list.
const AllStatuses = "_all"

// Cache holds per-user deposit lists keyed by status filter.
//
// Every Invalidate advances the user's generation. A list read from the
// database is stored with the generation taken before the read, and Set drops
// it if the user was invalidated in between.
type Cache interface {
	// Get reports hit=false on a miss.
	Get(ctx context.Context, userID uint, status string) (items []*dto.DepositDTO, hit bool, err error)
	Generation(ctx context.Context, userID uint) (int64, error)
	// Set is a no-op when gen is no longer the user's current generation.
	Set(ctx context.Context, userID uint, status string, gen int64, items []*dto.DepositDTO) error
	// Invalidate drops every cached list of the user.
	Invalidate(ctx context.Context, userID uint) error
}
