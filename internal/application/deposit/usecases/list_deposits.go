package usecases

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/application/deposit/listcache"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// ListDepositsQuery selects deposits. Without a UserID it is the admin-wide
// listing, which is audited.
type ListDepositsQuery struct {
	UserID *uint
	Status *string
}

type ListDepositsUseCase struct {
	depositRepo deposit.Repository
	cache       listcache.Cache
	audit       auditsink.Sink
	logger      logger.Interface
	group       singleflight.Group
}

func NewListDepositsUseCase(
	depositRepo deposit.Repository,
	cache listcache.Cache,
	audit auditsink.Sink,
	logger logger.Interface,
) *ListDepositsUseCase {
	return &ListDepositsUseCase{
		depositRepo: depositRepo,
		cache:       cache,
		audit:       audit,
		logger:      logger,
	}
}

func (uc *ListDepositsUseCase) Execute(ctx context.Context, query ListDepositsQuery) ([]*dto.DepositDTO, error) {
	var status *vo.Status
	if query.Status != nil && *query.Status != "" {
		s, err := vo.NewStatus(*query.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		status = &s
	}

	if query.UserID == nil {
		return uc.listAll(ctx, status)
	}
	return uc.listForUser(ctx, *query.UserID, status)
}

func (uc *ListDepositsUseCase) listAll(ctx context.Context, status *vo.Status) ([]*dto.DepositDTO, error) {
	deposits, err := uc.depositRepo.List(ctx, deposit.ListFilter{Status: status})
	if err != nil {
		uc.logger.Errorw("failed to list deposits", "error", err)
		return nil, errors.AsAppError(err, "failed to list deposits")
	}
	result := dto.ToDepositDTOs(deposits)

	description := fmt.Sprintf("listed %d deposits", len(result))
	if status != nil {
		description = fmt.Sprintf("listed %d deposits with status %s", len(result), status)
	}
	recordAudit(ctx, uc.audit, uc.logger, auditsink.Event{
		Action:       auditsink.ActionListDeposits,
		ResourceType: auditsink.ResourceTypeDeposit,
		Description:  description,
	})

	return result, nil
}

// listForUser is cache-aside; concurrent misses for the same key share one
// database read.
func (uc *ListDepositsUseCase) listForUser(ctx context.Context, userID uint, status *vo.Status) ([]*dto.DepositDTO, error) {
	statusKey := listcache.AllStatuses
	if status != nil {
		statusKey = status.String()
	}

	if uc.cache != nil {
		items, hit, err := uc.cache.Get(ctx, userID, statusKey)
		if err != nil {
			uc.logger.Warnw("deposit list cache read failed", "user_id", userID, "error", err)
		} else if hit {
			return items, nil
		}
	}

	key := fmt.Sprintf("%d:%s", userID, statusKey)
	v, err, _ := uc.group.Do(key, func() (interface{}, error) {
		// taken before the read so a write committed during it keeps this
		// result out of the cache
		var gen int64
		cacheable := uc.cache != nil
		if cacheable {
			var err error
			if gen, err = uc.cache.Generation(ctx, userID); err != nil {
				uc.logger.Warnw("deposit list cache generation read failed", "user_id", userID, "error", err)
				cacheable = false
			}
		}

		deposits, err := uc.depositRepo.List(ctx, deposit.ListFilter{UserID: &userID, Status: status})
		if err != nil {
			return nil, err
		}
		items := dto.ToDepositDTOs(deposits)
		if cacheable {
			if err := uc.cache.Set(ctx, userID, statusKey, gen, items); err != nil {
				uc.logger.Warnw("deposit list cache write failed", "user_id", userID, "error", err)
			}
		}
		return items, nil
	})
	if err != nil {
		uc.logger.Errorw("failed to list user deposits", "user_id", userID, "error", err)
		return nil, errors.AsAppError(err, "failed to list deposits")
	}

	return v.([]*dto.DepositDTO), nil
}
