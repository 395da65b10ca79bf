package usecases

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

type DeleteDepositUseCase struct {
	depositRepo deposit.Repository
	audit       auditsink.Sink
	logger      logger.Interface
}

func NewDeleteDepositUseCase(
	depositRepo deposit.Repository,
	audit auditsink.Sink,
	logger logger.Interface,
) *DeleteDepositUseCase {
	return &DeleteDepositUseCase{
		depositRepo: depositRepo,
		audit:       audit,
		logger:      logger,
	}
}

// Execute removes the deposit permanently, whatever its status, and returns
// the record as it was just before deletion.
func (uc *DeleteDepositUseCase) Execute(ctx context.Context, id uint) (*dto.DepositDTO, error) {
	existing, err := uc.depositRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.AsAppError(err, "failed to load deposit")
	}
	deleted := dto.ToDepositDTO(existing)

	if err := uc.depositRepo.Delete(ctx, id); err != nil {
		uc.logger.Errorw("failed to delete deposit", "deposit_id", id, "error", err)
		return nil, errors.AsAppError(err, "failed to delete deposit")
	}

	uc.logger.Infow("deposit deleted", "deposit_id", id, "user_id", existing.UserID(), "status", deleted.Status)

	recordAudit(ctx, uc.audit, uc.logger, auditsink.Event{
		Action:       auditsink.ActionDeleteDeposit,
		ResourceType: auditsink.ResourceTypeDeposit,
		ResourceID:   id,
		UserID:       existing.UserID(),
		Before:       deleted,
		Description:  "deposit deleted with status " + deleted.Status,
	})

	return deleted, nil
}
