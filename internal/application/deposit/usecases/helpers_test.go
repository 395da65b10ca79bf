package usecases

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/domain/deposit"
	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/shared/biztime"
)

var testNow = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

var testClock = biztime.Fixed(testNow)

func strPtr(s string) *string {
	return &s
}

func reconstruct(id uint, status vo.Status, amount string, applied bool) *deposit.Deposit {
	p := deposit.ReconstructParams{
		ID:          id,
		UserID:      42,
		TokenSymbol: "USDT",
		Amount:      decimal.RequireFromString(amount),
		Status:      status,
		Version:     1,
		CreatedAt:   testNow.Add(-time.Hour),
		UpdatedAt:   testNow.Add(-time.Hour),
	}
	if applied {
		price := decimal.NewFromInt(1)
		usd := decimal.RequireFromString(amount)
		at := testNow.Add(-time.Minute)
		p.TokenPriceAtApproval = &price
		p.USDValue = &usd
		p.ApprovedAt = &at
		p.ApprovalApplied = true
	}
	return deposit.ReconstructDeposit(p)
}

func decimalOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
