package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/money"
)

// DepositDTO is the external view of a deposit. Decimal values are rendered
// with eight fractional digits.
type DepositDTO struct {
	ID                   uint       `json:"id"`
	UserID               uint       `json:"user_id"`
	TokenSymbol          string     `json:"token_symbol"`
	Amount               string     `json:"amount"`
	DepositAddress       *string    `json:"deposit_address,omitempty"`
	Status               string     `json:"status"`
	TokenPriceAtApproval *string    `json:"token_price_at_approval,omitempty"`
	USDValue             *string    `json:"usd_value,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	ApprovalApplied      bool       `json:"approval_applied"`
	IsDeposit            bool       `json:"is_deposit"`
	IsWithdraw           bool       `json:"is_withdraw"`
	Version              int        `json:"version"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type BalanceDTO struct {
	UserID          uint   `json:"user_id"`
	TotalInvestment string `json:"total_investment"`
}

func ToDepositDTO(d *deposit.Deposit) *DepositDTO {
	if d == nil {
		return nil
	}

	var addr *string
	if d.DepositAddress() != nil {
		a := *d.DepositAddress()
		addr = &a
	}
	var approvedAt *time.Time
	if d.ApprovedAt() != nil {
		at := *d.ApprovedAt()
		approvedAt = &at
	}

	return &DepositDTO{
		ID:                   d.ID(),
		UserID:               d.UserID(),
		TokenSymbol:          d.TokenSymbol().String(),
		Amount:               money.Format(d.Amount()),
		DepositAddress:       addr,
		Status:               d.Status().String(),
		TokenPriceAtApproval: formatOptional(d.TokenPriceAtApproval()),
		USDValue:             formatOptional(d.USDValue()),
		ApprovedAt:           approvedAt,
		ApprovalApplied:      d.ApprovalApplied(),
		IsDeposit:            d.IsDeposit(),
		IsWithdraw:           d.IsWithdraw(),
		Version:              d.Version(),
		CreatedAt:            d.CreatedAt(),
		UpdatedAt:            d.UpdatedAt(),
	}
}

func ToDepositDTOs(deposits []*deposit.Deposit) []*DepositDTO {
	result := make([]*DepositDTO, 0, len(deposits))
	for _, d := range deposits {
		result = append(result, ToDepositDTO(d))
	}
	return result
}

func ToBalanceDTO(b *user.Balance) *BalanceDTO {
	if b == nil {
		return nil
	}
	return &BalanceDTO{
		UserID:          b.UserID,
		TotalInvestment: money.Format(b.TotalInvestment),
	}
}

func formatOptional(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money.Format(*d)
	return &s
}
