package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/depositd/internal/domain/deposit"
	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	apperrors "github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

var approvalTime = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func storedPending(amount string) *deposit.Deposit {
	return deposit.ReconstructDeposit(deposit.ReconstructParams{
		ID:          11,
		UserID:      5,
		TokenSymbol: "USDT",
		Amount:      dec(amount),
		Status:      vo.StatusPending,
		Version:     1,
		CreatedAt:   approvalTime.Add(-time.Hour),
		UpdatedAt:   approvalTime.Add(-time.Hour),
	})
}

func approvingCopy(t *testing.T, stored *deposit.Deposit) *deposit.Deposit {
	t.Helper()
	working := stored.Clone()
	status := vo.StatusApproved
	require.NoError(t, working.ApplyChanges(deposit.Changes{Status: &status}, approvalTime))
	return working
}

type engineFixture struct {
	oracle   *mockPriceOracle
	users    *mockUserRepository
	deposits *mockDepositRepository
	uow      *mockUnitOfWork
	metrics  *recordingMetrics
	engine   *Engine

	stored    *deposit.Deposit
	balance   decimal.Decimal
	increment int
	persisted *deposit.Deposit
}

func newEngineFixture(t *testing.T, stored *deposit.Deposit) *engineFixture {
	t.Helper()
	f := &engineFixture{
		oracle:  &mockPriceOracle{},
		uow:     &mockUnitOfWork{},
		metrics: &recordingMetrics{},
		stored:  stored,
		balance: decimal.Zero,
	}
	f.users = &mockUserRepository{
		GetBalanceForUpdateFunc: func(ctx context.Context, id uint) (*user.Balance, error) {
			return &user.Balance{UserID: id, TotalInvestment: f.balance}, nil
		},
		GetBalanceFunc: func(ctx context.Context, id uint) (*user.Balance, error) {
			return &user.Balance{UserID: id, TotalInvestment: f.balance}, nil
		},
		IncrementFunc: func(ctx context.Context, id uint, delta decimal.Decimal) error {
			f.increment++
			f.balance = f.balance.Add(delta)
			return nil
		},
	}
	f.deposits = &mockDepositRepository{
		GetByIDForUpdateFunc: func(ctx context.Context, id uint) (*deposit.Deposit, error) {
			if f.stored == nil {
				return nil, apperrors.NewNotFoundError("deposit not found")
			}
			return f.stored.Clone(), nil
		},
		UpdateFunc: func(ctx context.Context, d *deposit.Deposit) error {
			d.MarkPersisted(d.Version() + 1)
			f.persisted = d.Clone()
			f.stored = d.Clone()
			return nil
		},
	}
	f.engine = NewEngine(f.oracle, f.users, f.deposits, f.uow, time.Second,
		biztime.Fixed(approvalTime), f.metrics, logger.NewNopLogger())
	return f
}

func TestEngine_Approve_CreditsExactValue(t *testing.T) {
	f := newEngineFixture(t, storedPending("10"))
	f.oracle.GetPriceFunc = func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		assert.Equal(t, "USDT", symbol)
		return dec("2.5"), nil
	}

	result, err := f.engine.Approve(context.Background(), approvingCopy(t, f.stored))
	require.NoError(t, err)

	assert.True(t, result.Credited)
	assert.Equal(t, "25.00000000", result.Deposit.USDValue().StringFixed(8))
	assert.Equal(t, "2.50000000", result.Deposit.TokenPriceAtApproval().StringFixed(8))
	assert.Equal(t, approvalTime, *result.Deposit.ApprovedAt())
	assert.True(t, result.Deposit.ApprovalApplied())
	assert.Equal(t, "25.00000000", result.Balance.TotalInvestment.StringFixed(8))
	assert.Equal(t, 1, f.increment)
	assert.Equal(t, 1, f.uow.committed)
	assert.Equal(t, []string{OutcomeCredited}, f.metrics.outcomes)
	assert.True(t, f.metrics.credited.Equal(dec("25")))
}

func TestEngine_Approve_RoundsToEightPlaces(t *testing.T) {
	f := newEngineFixture(t, storedPending("1.5"))
	f.oracle.GetPriceFunc = func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		return dec("0.00000003"), nil
	}

	result, err := f.engine.Approve(context.Background(), approvingCopy(t, f.stored))
	require.NoError(t, err)
	// 1.5 * 0.00000003 = 0.000000045, rounded half away from zero
	assert.Equal(t, "0.00000005", result.Deposit.USDValue().StringFixed(8))
}

func TestEngine_Approve_ReplayDoesNotCreditTwice(t *testing.T) {
	f := newEngineFixture(t, storedPending("10"))
	f.oracle.GetPriceFunc = func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		return dec("2.5"), nil
	}

	stale := approvingCopy(t, f.stored)
	first, err := f.engine.Approve(context.Background(), approvingCopy(t, f.stored))
	require.NoError(t, err)

	// a second attempt built from the pre-approval read races in afterwards
	f.oracle.GetPriceFunc = func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		return dec("9"), nil
	}
	second, err := f.engine.Approve(context.Background(), stale)
	require.NoError(t, err)

	assert.False(t, second.Credited)
	assert.Equal(t, 1, f.increment)
	assert.Equal(t, "25.00000000", f.balance.StringFixed(8))
	assert.True(t, second.Deposit.USDValue().Equal(*first.Deposit.USDValue()))
	assert.True(t, second.Deposit.TokenPriceAtApproval().Equal(*first.Deposit.TokenPriceAtApproval()))
	assert.Equal(t, *first.Deposit.ApprovedAt(), *second.Deposit.ApprovedAt())
	assert.Equal(t, []string{OutcomeCredited, OutcomeReplayed}, f.metrics.outcomes)
}

func TestEngine_Approve_AppliedSnapshotSkipsPriceLookup(t *testing.T) {
	f := newEngineFixture(t, storedPending("10"))
	f.oracle.GetPriceFunc = func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		return dec("2"), nil
	}
	first, err := f.engine.Approve(context.Background(), approvingCopy(t, f.stored))
	require.NoError(t, err)

	// moved away from approved and back again while the oracle is down
	reopened := first.Deposit.Clone()
	rejected := vo.StatusRejected
	require.NoError(t, reopened.ApplyChanges(deposit.Changes{Status: &rejected}, approvalTime))
	require.NoError(t, f.deposits.Update(context.Background(), reopened))
	f.oracle.GetPriceFunc = func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("oracle down")
	}
	calls := f.oracle.calls

	again := approvingCopy(t, f.stored)
	result, err := f.engine.Approve(context.Background(), again)
	require.NoError(t, err)
	assert.False(t, result.Credited)
	assert.Equal(t, calls, f.oracle.calls)
	assert.Equal(t, 1, f.increment)
}

func TestEngine_Approve_PriceFailureLeavesEverythingUntouched(t *testing.T) {
	cases := map[string]func(ctx context.Context, symbol string) (decimal.Decimal, error){
		"oracle error": func(ctx context.Context, symbol string) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("unknown symbol")
		},
		"zero price": func(ctx context.Context, symbol string) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
		"negative price": func(ctx context.Context, symbol string) (decimal.Decimal, error) {
			return dec("-1"), nil
		},
		"timeout": func(ctx context.Context, symbol string) (decimal.Decimal, error) {
			<-ctx.Done()
			return decimal.Zero, ctx.Err()
		},
	}

	for name, lookup := range cases {
		t.Run(name, func(t *testing.T) {
			f := newEngineFixture(t, storedPending("100"))
			f.engine.priceTimeout = 20 * time.Millisecond
			f.oracle.GetPriceFunc = lookup

			working := approvingCopy(t, f.stored)
			result, err := f.engine.Approve(context.Background(), working)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperrors.IsPriceUnavailableError(err))
			assert.Zero(t, f.uow.runs, "no unit of work may be opened")
			assert.Zero(t, f.increment)
			assert.Nil(t, f.persisted)
			assert.Equal(t, vo.StatusPending, f.stored.Status())
			assert.False(t, working.ApprovalApplied())
		})
	}
}

func TestEngine_Approve_UserMissing(t *testing.T) {
	f := newEngineFixture(t, storedPending("1"))
	f.users.GetBalanceForUpdateFunc = func(ctx context.Context, id uint) (*user.Balance, error) {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	working := approvingCopy(t, f.stored)
	_, err := f.engine.Approve(context.Background(), working)

	assert.True(t, apperrors.IsUserNotFoundError(err))
	assert.Equal(t, 1, f.uow.aborted)
	assert.Zero(t, f.increment)
	assert.Nil(t, f.persisted)
	assert.False(t, working.ApprovalApplied())
	assert.Equal(t, []string{OutcomeUserNotFound}, f.metrics.outcomes)
}

func TestEngine_Approve_DepositVanished(t *testing.T) {
	f := newEngineFixture(t, storedPending("1"))
	working := approvingCopy(t, f.stored)
	f.stored = nil

	_, err := f.engine.Approve(context.Background(), working)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Zero(t, f.increment)
}

func TestEngine_Approve_StaleWorkingCopyConflicts(t *testing.T) {
	f := newEngineFixture(t, storedPending("1"))
	working := approvingCopy(t, f.stored)

	// someone else edited the address in between
	edited := f.stored.Clone()
	addr := "elsewhere"
	require.NoError(t, edited.ApplyChanges(deposit.Changes{DepositAddress: &addr}, approvalTime))
	edited.MarkPersisted(2)
	f.stored = edited

	_, err := f.engine.Approve(context.Background(), working)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Zero(t, f.increment)
	assert.Equal(t, []string{OutcomeConflict}, f.metrics.outcomes)
}

func TestEngine_Approve_InfrastructureFailureIsInternal(t *testing.T) {
	f := newEngineFixture(t, storedPending("1"))
	f.deposits.UpdateFunc = func(ctx context.Context, d *deposit.Deposit) error {
		return errors.New("connection reset")
	}

	working := approvingCopy(t, f.stored)
	_, err := f.engine.Approve(context.Background(), working)

	assert.True(t, apperrors.IsInternalError(err))
	assert.Equal(t, 1, f.uow.aborted)
	assert.False(t, working.ApprovalApplied(), "working copy must not carry a rolled back snapshot")
}

func TestEngine_Approve_RequiresApprovedStatus(t *testing.T) {
	f := newEngineFixture(t, storedPending("1"))
	_, err := f.engine.Approve(context.Background(), f.stored.Clone())
	assert.True(t, apperrors.IsInternalError(err))
	assert.Zero(t, f.oracle.calls)
}
