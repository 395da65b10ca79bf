package usecases

import (
	"context"

	"github.com/ledgerline/depositd/internal/application/user/dto"
	domainUser "github.com/ledgerline/depositd/internal/domain/user"
	vo "github.com/ledgerline/depositd/internal/domain/user/valueobjects"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/utils"
)

// CreateUserUseCase seeds a user row with a zero investment balance. Accounts
// are owned by another system; this exists for operators and local setups.
type CreateUserUseCase struct {
	userRepo domainUser.Repository
	clock    biztime.Clock
	logger   logger.Interface
}

func NewCreateUserUseCase(
	userRepo domainUser.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo: userRepo,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, request dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	email, err := vo.NewEmail(request.Email)
	if err != nil {
		return nil, errors.NewValidationError("invalid email", err.Error())
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("database error while checking for existing user", "email", email.String(), "error", err)
		return nil, errors.AsAppError(err, "failed to check existing user")
	}
	if exists {
		return nil, errors.NewConflictError("user with this email already exists", email.String())
	}

	u := domainUser.NewUser(email, uc.clock())
	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, errors.AsAppError(err, "failed to create user")
	}

	uc.logger.Infow("user created", "user_id", u.ID(), "email", email.String())

	return dto.ToUserResponse(u), nil
}
