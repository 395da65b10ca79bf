package deposit

import (
	"context"

	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
)

// Repository persists deposits. Lookups of a missing deposit return a
// NotFoundError; Update returns a ConflictError when the stored version no
// longer matches.
type Repository interface {
	Create(ctx context.Context, d *Deposit) error
	GetByID(ctx context.Context, id uint) (*Deposit, error)
	// GetByIDForUpdate reads the row under a write lock. It must run inside a
	// unit of work.
	GetByIDForUpdate(ctx context.Context, id uint) (*Deposit, error)
	Update(ctx context.Context, d *Deposit) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*Deposit, error)
}

// ListFilter narrows List. Nil fields match everything.
type ListFilter struct {
	UserID *uint
	Status *vo.Status
}
