package usecases

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/deposit/approval"
	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/domain/deposit"
)

// Approver runs the approval transaction for a working copy whose status has
// just become approved.
type Approver interface {
	Approve(ctx context.Context, working *deposit.Deposit) (*approval.Result, error)
}

type CreateDepositExecutor interface {
	Execute(ctx context.Context, cmd CreateDepositCommand) (*dto.DepositDTO, error)
}

type UpdateDepositExecutor interface {
	Execute(ctx context.Context, id uint, cmd UpdateDepositCommand) (*dto.DepositDTO, error)
}

type DeleteDepositExecutor interface {
	Execute(ctx context.Context, id uint) (*dto.DepositDTO, error)
}

type GetDepositExecutor interface {
	Execute(ctx context.Context, id uint) (*dto.DepositDTO, error)
}

type ListDepositsExecutor interface {
	Execute(ctx context.Context, query ListDepositsQuery) ([]*dto.DepositDTO, error)
}

type GetBalanceExecutor interface {
	Execute(ctx context.Context, userID uint) (*dto.BalanceDTO, error)
}
