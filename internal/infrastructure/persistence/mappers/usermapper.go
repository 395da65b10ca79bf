package mappers

import (
	"fmt"

	"github.com/ledgerline/depositd/internal/domain/user"
	vo "github.com/ledgerline/depositd/internal/domain/user/valueobjects"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/models"
	"github.com/ledgerline/depositd/internal/shared/money"
)

func UserToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:              u.ID(),
		Email:           u.Email().String(),
		TotalInvestment: u.TotalInvestment(),
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
	}
}

func UserToDomain(model *models.UserModel) (*user.User, error) {
	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email in user %d: %w", model.ID, err)
	}
	return user.ReconstructUser(model.ID, email, money.Round(model.TotalInvestment),
		model.CreatedAt.UTC(), model.UpdatedAt.UTC()), nil
}

func UserToBalance(model *models.UserModel) *user.Balance {
	return &user.Balance{
		UserID:          model.ID,
		TotalInvestment: money.Round(model.TotalInvestment),
	}
}
