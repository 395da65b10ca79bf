package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/depositd/internal/domain/user"
	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	apperrors "github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

func TestGetDepositUseCase(t *testing.T) {
	uc := NewGetDepositUseCase(repoWith(reconstruct(2, vo.StatusPending, "1", false)), logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), result.ID)
	assert.Nil(t, result.USDValue)
	assert.False(t, result.ApprovalApplied)

	_, err = uc.Execute(context.Background(), 3)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestGetBalanceUseCase(t *testing.T) {
	users := &mockUserRepository{GetBalanceFunc: func(ctx context.Context, id uint) (*user.Balance, error) {
		if id != 42 {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return &user.Balance{UserID: id, TotalInvestment: decimalOf("25")}, nil
	}}
	uc := NewGetBalanceUseCase(users, logger.NewNopLogger())

	b, err := uc.Execute(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "25.00000000", b.TotalInvestment)

	_, err = uc.Execute(context.Background(), 1)
	assert.True(t, apperrors.IsNotFoundError(err))
}
