package usecases

import (
	"context"
	"fmt"

	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/application/deposit/notifier"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/money"
	"github.com/ledgerline/depositd/internal/shared/utils"
)

type CreateDepositCommand struct {
	UserID         uint    `json:"user_id" validate:"required"`
	TokenSymbol    string  `json:"token_symbol" validate:"required,max=32"`
	Amount         string  `json:"amount" validate:"required,positive_decimal"`
	DepositAddress *string `json:"deposit_address" validate:"omitempty,max=255"`
	Status         *string `json:"status" validate:"omitempty,max=32"`
}

type CreateDepositUseCase struct {
	depositRepo deposit.Repository
	userRepo    user.Repository
	notifier    notifier.Notifier
	audit       auditsink.Sink
	clock       biztime.Clock
	logger      logger.Interface
}

func NewCreateDepositUseCase(
	depositRepo deposit.Repository,
	userRepo user.Repository,
	notifier notifier.Notifier,
	audit auditsink.Sink,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateDepositUseCase {
	if clock == nil {
		clock = biztime.SystemClock
	}
	return &CreateDepositUseCase{
		depositRepo: depositRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		audit:       audit,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *CreateDepositUseCase) Execute(ctx context.Context, cmd CreateDepositCommand) (*dto.DepositDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	symbol, err := vo.NewTokenSymbol(cmd.TokenSymbol)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	amount, err := money.ParsePositive(cmd.Amount)
	if err != nil {
		return nil, errors.NewValidationError("amount must be a positive decimal", err.Error())
	}
	var status vo.Status
	if cmd.Status != nil {
		if status, err = vo.NewStatus(*cmd.Status); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	address := sanitizeAddress(cmd.DepositAddress)

	exists, err := uc.userRepo.Exists(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to check user existence", "user_id", cmd.UserID, "error", err)
		return nil, errors.AsAppError(err, "failed to create deposit")
	}
	if !exists {
		return nil, errors.NewNotFoundError("user not found", fmt.Sprintf("%d", cmd.UserID))
	}

	d, err := deposit.NewDeposit(cmd.UserID, symbol, amount, address, status, uc.clock())
	if err != nil {
		return nil, err
	}

	if err := uc.depositRepo.Create(ctx, d); err != nil {
		uc.logger.Errorw("failed to create deposit", "user_id", cmd.UserID, "error", err)
		return nil, errors.AsAppError(err, "failed to create deposit")
	}

	result := dto.ToDepositDTO(d)
	uc.logger.Infow("deposit created", "deposit_id", d.ID(), "user_id", d.UserID(), "token_symbol", symbol.String())

	if uc.notifier != nil {
		n := notifier.Notification{
			Action: notifier.ActionDepositCreated,
			UserID: d.UserID(),
			Metadata: map[string]any{
				"deposit_id":   d.ID(),
				"token_symbol": result.TokenSymbol,
				"amount":       result.Amount,
				"status":       result.Status,
			},
		}
		if err := uc.notifier.Notify(ctx, n); err != nil {
			uc.logger.Warnw("failed to notify deposit creation", "deposit_id", d.ID(), "error", err)
		}
	}

	recordAudit(ctx, uc.audit, uc.logger, auditsink.Event{
		Action:       auditsink.ActionCreateDeposit,
		ResourceType: auditsink.ResourceTypeDeposit,
		ResourceID:   d.ID(),
		UserID:       d.UserID(),
		After:        result,
		Description:  "deposit created",
	})

	return result, nil
}

func sanitizeAddress(addr *string) *string {
	if addr == nil {
		return nil
	}
	clean := utils.StripTags(*addr)
	if clean == "" {
		return nil
	}
	return &clean
}
