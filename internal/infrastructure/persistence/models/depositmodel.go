package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositModel maps deposit rows of the shared transactions table. Withdrawal
// rows live in the same table with the kind flags inverted.
type DepositModel struct {
	ID                   uint                `gorm:"primaryKey"`
	UserID               uint                `gorm:"not null;index:idx_transactions_user_status"`
	TokenSymbol          string              `gorm:"size:32;not null"`
	Amount               decimal.Decimal     `gorm:"type:decimal(30,8);not null"`
	DepositAddress       *string             `gorm:"size:255"`
	Status               string              `gorm:"size:32;not null;index:idx_transactions_user_status"`
	TokenPriceAtApproval decimal.NullDecimal `gorm:"type:decimal(30,8)"`
	USDValue             decimal.NullDecimal `gorm:"column:usd_value;type:decimal(30,8)"`
	ApprovedAt           *time.Time
	ApprovalApplied      bool `gorm:"not null"`
	IsDeposit            bool `gorm:"not null;index:idx_transactions_kind"`
	IsWithdraw           bool `gorm:"not null;index:idx_transactions_kind"`
	Version              int  `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (DepositModel) TableName() string {
	return TableTransactions
}
