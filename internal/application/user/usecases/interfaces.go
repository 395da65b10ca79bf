package usecases

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/user/dto"
)

type CreateUserExecutor interface {
	Execute(ctx context.Context, request dto.CreateUserRequest) (*dto.UserResponse, error)
}
