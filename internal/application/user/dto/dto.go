package dto

import (
	"time"

	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/money"
)

type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type UserResponse struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	TotalInvestment string    `json:"total_investment"`
	CreatedAt       time.Time `json:"created_at"`
}

func ToUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	resp := &UserResponse{
		ID:              u.ID(),
		TotalInvestment: money.Format(u.TotalInvestment()),
		CreatedAt:       u.CreatedAt(),
	}
	if u.Email() != nil {
		resp.Email = u.Email().String()
	}
	return resp
}
