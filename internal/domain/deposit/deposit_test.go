package deposit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/shared/errors"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func statusPtr(s vo.Status) *vo.Status {
	return &s
}

func pendingDeposit(t *testing.T) *Deposit {
	t.Helper()
	d, err := NewDeposit(7, vo.TokenSymbol("USDT"), dec("100"), nil, "", testNow)
	require.NoError(t, err)
	d.SetID(1)
	return d
}

func approvedDeposit(amount string) *Deposit {
	price := dec("1")
	usd := dec(amount)
	at := testNow
	return ReconstructDeposit(ReconstructParams{
		ID:                   2,
		UserID:               7,
		TokenSymbol:          "USDT",
		Amount:               dec(amount),
		Status:               vo.StatusApproved,
		TokenPriceAtApproval: &price,
		USDValue:             &usd,
		ApprovedAt:           &at,
		ApprovalApplied:      true,
		Version:              3,
		CreatedAt:            testNow,
		UpdatedAt:            testNow,
	})
}

func TestNewDeposit(t *testing.T) {
	t.Run("defaults to pending", func(t *testing.T) {
		d := pendingDeposit(t)
		assert.Equal(t, vo.StatusPending, d.Status())
		assert.Equal(t, 1, d.Version())
		assert.False(t, d.ApprovalApplied())
		assert.True(t, d.IsDeposit())
		assert.False(t, d.IsWithdraw())
	})

	t.Run("rounds amount to eight places", func(t *testing.T) {
		d, err := NewDeposit(1, "BTC", dec("0.123456789"), nil, vo.StatusPending, testNow)
		require.NoError(t, err)
		assert.Equal(t, "0.12345679", d.Amount().StringFixed(8))
	})

	t.Run("validates input", func(t *testing.T) {
		cases := []struct {
			name   string
			userID uint
			symbol vo.TokenSymbol
			amount string
			status vo.Status
		}{
			{"missing user", 0, "BTC", "1", ""},
			{"missing symbol", 1, "", "1", ""},
			{"zero amount", 1, "BTC", "0", ""},
			{"negative amount", 1, "BTC", "-1", ""},
			{"approved at creation", 1, "BTC", "1", vo.StatusApproved},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewDeposit(tc.userID, tc.symbol, dec(tc.amount), nil, tc.status, testNow)
				assert.True(t, errors.IsValidationError(err))
			})
		}
	})
}

func TestApplyChanges(t *testing.T) {
	t.Run("pending deposit accepts any edit", func(t *testing.T) {
		d := pendingDeposit(t)
		amount := dec("75")
		symbol := vo.TokenSymbol("ETH")
		addr := "0xabc"
		later := testNow.Add(time.Minute)

		require.NoError(t, d.ApplyChanges(Changes{Amount: &amount, TokenSymbol: &symbol, DepositAddress: &addr}, later))
		assert.True(t, d.Amount().Equal(amount))
		assert.Equal(t, symbol, d.TokenSymbol())
		require.NotNil(t, d.DepositAddress())
		assert.Equal(t, addr, *d.DepositAddress())
		assert.Equal(t, later, d.UpdatedAt())
	})

	t.Run("empty address clears it", func(t *testing.T) {
		d := pendingDeposit(t)
		addr := "0xabc"
		require.NoError(t, d.ApplyChanges(Changes{DepositAddress: &addr}, testNow))
		empty := ""
		require.NoError(t, d.ApplyChanges(Changes{DepositAddress: &empty}, testNow))
		assert.Nil(t, d.DepositAddress())
	})

	t.Run("approved deposit rejects amount change", func(t *testing.T) {
		d := approvedDeposit("50")
		amount := dec("75")
		err := d.ApplyChanges(Changes{Amount: &amount}, testNow)
		assert.True(t, errors.IsImmutableFieldError(err))
		assert.True(t, d.Amount().Equal(dec("50")))
	})

	t.Run("approved deposit rejects token change", func(t *testing.T) {
		d := approvedDeposit("50")
		symbol := vo.TokenSymbol("BTC")
		err := d.ApplyChanges(Changes{TokenSymbol: &symbol}, testNow)
		assert.True(t, errors.IsImmutableFieldError(err))
		assert.Equal(t, vo.TokenSymbol("USDT"), d.TokenSymbol())
	})

	t.Run("resending the frozen value is not a change", func(t *testing.T) {
		d := approvedDeposit("50")
		amount := dec("50.00000000")
		symbol := vo.TokenSymbol("USDT")
		addr := "new-address"
		assert.NoError(t, d.ApplyChanges(Changes{Amount: &amount, TokenSymbol: &symbol, DepositAddress: &addr}, testNow))
	})

	t.Run("snapshot keeps fields frozen after leaving approved", func(t *testing.T) {
		d := approvedDeposit("50")
		require.NoError(t, d.ApplyChanges(Changes{Status: statusPtr(vo.StatusRejected)}, testNow))
		amount := dec("60")
		err := d.ApplyChanges(Changes{Amount: &amount}, testNow)
		assert.True(t, errors.IsImmutableFieldError(err))
	})
}

func TestIsApprovingEdge(t *testing.T) {
	d := pendingDeposit(t)
	require.NoError(t, d.ApplyChanges(Changes{Status: statusPtr(vo.StatusApproved)}, testNow))
	assert.True(t, d.IsApprovingEdge(vo.StatusPending))
	assert.True(t, d.IsApprovingEdge(vo.StatusRejected))
	assert.False(t, d.IsApprovingEdge(vo.StatusApproved))

	other := pendingDeposit(t)
	assert.False(t, other.IsApprovingEdge(vo.StatusPending))
}

func TestRecordApproval(t *testing.T) {
	d := pendingDeposit(t)
	require.Error(t, d.RecordApproval(dec("1"), dec("100"), testNow), "status must be approved first")

	require.NoError(t, d.ApplyChanges(Changes{Status: statusPtr(vo.StatusApproved)}, testNow))
	require.NoError(t, d.RecordApproval(dec("2.5"), dec("250"), testNow))

	assert.True(t, d.ApprovalApplied())
	assert.Equal(t, "2.50000000", d.TokenPriceAtApproval().StringFixed(8))
	assert.Equal(t, "250.00000000", d.USDValue().StringFixed(8))
	assert.Equal(t, testNow, *d.ApprovedAt())

	assert.Error(t, d.RecordApproval(dec("3"), dec("300"), testNow))
	assert.Equal(t, "250.00000000", d.USDValue().StringFixed(8))
}

func TestAdoptApproval(t *testing.T) {
	stored := approvedDeposit("50")

	working := ReconstructDeposit(ReconstructParams{
		ID: 2, UserID: 7, TokenSymbol: "USDT", Amount: dec("50"),
		Status: vo.StatusApproved, Version: 2, CreatedAt: testNow, UpdatedAt: testNow,
	})
	require.NoError(t, working.AdoptApproval(stored))
	assert.True(t, working.ApprovalApplied())
	assert.True(t, working.USDValue().Equal(*stored.USDValue()))
	assert.Equal(t, stored.Version(), working.Version())

	mismatch := ReconstructDeposit(ReconstructParams{
		ID: 2, UserID: 7, TokenSymbol: "USDT", Amount: dec("51"),
		Status: vo.StatusApproved, Version: 2,
	})
	assert.True(t, errors.IsImmutableFieldError(mismatch.AdoptApproval(stored)))

	assert.Error(t, working.AdoptApproval(pendingDeposit(t)))
}

func TestClone(t *testing.T) {
	d := approvedDeposit("50")
	addr := "a"
	require.NoError(t, d.ApplyChanges(Changes{DepositAddress: &addr}, testNow))

	c := d.Clone()
	other := "b"
	require.NoError(t, c.ApplyChanges(Changes{DepositAddress: &other, Status: statusPtr(vo.StatusRejected)}, testNow))

	assert.Equal(t, "a", *d.DepositAddress())
	assert.Equal(t, vo.StatusApproved, d.Status())
	assert.NotSame(t, d.USDValue(), c.USDValue())
}
