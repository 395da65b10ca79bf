package user

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the user directory and balance store. Missing users are
// reported as a NotFoundError.
type Repository interface {
	Create(ctx context.Context, user *User) error

	Exists(ctx context.Context, id uint) (bool, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	GetBalance(ctx context.Context, id uint) (*Balance, error)

	// GetBalanceForUpdate reads the balance under a row lock held until the
	// surrounding unit of work ends.
	GetBalanceForUpdate(ctx context.Context, id uint) (*Balance, error)

	// IncrementInvestment adds delta to total_investment in a single
	// statement.
	IncrementInvestment(ctx context.Context, id uint, delta decimal.Decimal) error
}
