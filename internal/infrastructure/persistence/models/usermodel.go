package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserModel holds the slice of the users table this service owns.
type UserModel struct {
	ID              uint            `gorm:"primarykey"`
	Email           string          `gorm:"uniqueIndex;not null;size:255"`
	TotalInvestment decimal.Decimal `gorm:"type:decimal(30,8);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (UserModel) TableName() string {
	return TableUsers
}
