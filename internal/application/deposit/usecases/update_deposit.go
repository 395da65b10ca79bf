package usecases

import (
	"context"
	"fmt"

	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/money"
	"github.com/ledgerline/depositd/internal/shared/utils"
)

// UpdateDepositCommand is a partial edit; nil fields are left unchanged.
type UpdateDepositCommand struct {
	TokenSymbol    *string `json:"token_symbol" validate:"omitempty,max=32"`
	Amount         *string `json:"amount" validate:"omitempty,positive_decimal"`
	DepositAddress *string `json:"deposit_address" validate:"omitempty,max=255"`
	Status         *string `json:"status" validate:"omitempty,max=32"`
}

type UpdateDepositUseCase struct {
	depositRepo deposit.Repository
	approver    Approver
	audit       auditsink.Sink
	clock       biztime.Clock
	logger      logger.Interface
}

func NewUpdateDepositUseCase(
	depositRepo deposit.Repository,
	approver Approver,
	audit auditsink.Sink,
	clock biztime.Clock,
	logger logger.Interface,
) *UpdateDepositUseCase {
	if clock == nil {
		clock = biztime.SystemClock
	}
	return &UpdateDepositUseCase{
		depositRepo: depositRepo,
		approver:    approver,
		audit:       audit,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *UpdateDepositUseCase) Execute(ctx context.Context, id uint, cmd UpdateDepositCommand) (*dto.DepositDTO, error) {
	changes, err := uc.parseChanges(cmd)
	if err != nil {
		return nil, err
	}

	current, err := uc.depositRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.AsAppError(err, "failed to load deposit")
	}

	before := dto.ToDepositDTO(current)
	prevStatus := current.Status()
	log := uc.logger.With("deposit_id", id, "user_id", current.UserID(), "prev_status", prevStatus.String())

	working := current.Clone()
	if err := working.ApplyChanges(changes, uc.clock()); err != nil {
		log.Warnw("deposit update rejected", "error", err)
		return nil, err
	}

	saved := working
	if working.IsApprovingEdge(prevStatus) {
		result, err := uc.approver.Approve(ctx, working)
		if err != nil {
			log.Errorw("deposit approval failed", "error", err)
			return nil, err
		}
		saved = result.Deposit
	} else if err := uc.depositRepo.Update(ctx, working); err != nil {
		log.Errorw("failed to update deposit", "error", err)
		return nil, errors.AsAppError(err, "failed to update deposit")
	}

	after := dto.ToDepositDTO(saved)
	log.Infow("deposit updated", "status", after.Status)

	recordAudit(ctx, uc.audit, uc.logger, auditsink.Event{
		Action:       auditsink.ActionUpdateDeposit,
		ResourceType: auditsink.ResourceTypeDeposit,
		ResourceID:   id,
		UserID:       saved.UserID(),
		Before:       before,
		After:        after,
		Description:  describeUpdate(prevStatus, saved.Status()),
	})

	return after, nil
}

func (uc *UpdateDepositUseCase) parseChanges(cmd UpdateDepositCommand) (deposit.Changes, error) {
	var changes deposit.Changes

	if err := utils.ValidateStruct(cmd); err != nil {
		return changes, err
	}

	if cmd.TokenSymbol != nil {
		symbol, err := vo.NewTokenSymbol(*cmd.TokenSymbol)
		if err != nil {
			return changes, errors.NewValidationError(err.Error())
		}
		changes.TokenSymbol = &symbol
	}
	if cmd.Amount != nil {
		amount, err := money.ParsePositive(*cmd.Amount)
		if err != nil {
			return changes, errors.NewValidationError("amount must be a positive decimal", err.Error())
		}
		changes.Amount = &amount
	}
	if cmd.DepositAddress != nil {
		clean := utils.StripTags(*cmd.DepositAddress)
		changes.DepositAddress = &clean
	}
	if cmd.Status != nil {
		status, err := vo.NewStatus(*cmd.Status)
		if err != nil {
			return changes, errors.NewValidationError(err.Error())
		}
		changes.Status = &status
	}

	return changes, nil
}

func describeUpdate(prev, next vo.Status) string {
	if prev != next {
		return fmt.Sprintf("status changed from %s to %s", prev, next)
	}
	return "deposit fields updated without status change"
}
