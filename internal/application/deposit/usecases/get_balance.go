package usecases

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

type GetBalanceUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetBalanceUseCase(userRepo user.Repository, logger logger.Interface) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *GetBalanceUseCase) Execute(ctx context.Context, userID uint) (*dto.BalanceDTO, error) {
	b, err := uc.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, errors.AsAppError(err, "failed to get balance")
	}
	return dto.ToBalanceDTO(b), nil
}
