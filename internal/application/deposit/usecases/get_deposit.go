package usecases

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

type GetDepositUseCase struct {
	depositRepo deposit.Repository
	logger      logger.Interface
}

func NewGetDepositUseCase(depositRepo deposit.Repository, logger logger.Interface) *GetDepositUseCase {
	return &GetDepositUseCase{
		depositRepo: depositRepo,
		logger:      logger,
	}
}

func (uc *GetDepositUseCase) Execute(ctx context.Context, id uint) (*dto.DepositDTO, error) {
	d, err := uc.depositRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Errorw("failed to get deposit", "deposit_id", id, "error", err)
		}
		return nil, errors.AsAppError(err, "failed to get deposit")
	}
	return dto.ToDepositDTO(d), nil
}
