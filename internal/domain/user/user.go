package user

import (
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/ledgerline/depositd/internal/domain/user/valueobjects"
)

// User is the owner of deposits. Only the fields the deposit service needs
// are modelled here; the rest of the account lives elsewhere.
type User struct {
	id              uint
	email           *vo.Email
	totalInvestment decimal.Decimal
	createdAt       time.Time
	updatedAt       time.Time
}

func NewUser(email *vo.Email, now time.Time) *User {
	return &User{
		email:           email,
		totalInvestment: decimal.Zero,
		createdAt:       now,
		updatedAt:       now,
	}
}

func ReconstructUser(id uint, email *vo.Email, totalInvestment decimal.Decimal, createdAt, updatedAt time.Time) *User {
	return &User{
		id:              id,
		email:           email,
		totalInvestment: totalInvestment,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) {
	u.id = id
}

func (u *User) Email() *vo.Email {
	return u.email
}

func (u *User) TotalInvestment() decimal.Decimal {
	return u.totalInvestment
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// Balance is the projection of a user that approvals credit.
type Balance struct {
	UserID          uint
	TotalInvestment decimal.Decimal
}
