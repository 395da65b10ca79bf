package deposit

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/depositd/internal/application/deposit/usecases"
	"github.com/ledgerline/depositd/internal/shared/errors"
)

// CreateDepositRequest accepts amounts as JSON numbers or decimal strings.
type CreateDepositRequest struct {
	UserID         uint        `json:"user_id" binding:"required" example:"1"`
	TokenSymbol    string      `json:"token_symbol" binding:"required,max=32" example:"BTC"`
	Amount         json.Number `json:"amount" binding:"required" swaggertype:"string" example:"0.5"`
	DepositAddress *string     `json:"deposit_address,omitempty" binding:"omitempty,max=255"`
	Status         *string     `json:"status,omitempty" example:"pending"`
}

func (r *CreateDepositRequest) ToCommand() usecases.CreateDepositCommand {
	return usecases.CreateDepositCommand{
		UserID:         r.UserID,
		TokenSymbol:    r.TokenSymbol,
		Amount:         r.Amount.String(),
		DepositAddress: r.DepositAddress,
		Status:         r.Status,
	}
}

// UpdateDepositRequest is a partial edit. Absent fields stay unchanged.
type UpdateDepositRequest struct {
	TokenSymbol    *string      `json:"token_symbol,omitempty" binding:"omitempty,max=32"`
	Amount         *json.Number `json:"amount,omitempty" swaggertype:"string"`
	DepositAddress *string      `json:"deposit_address,omitempty" binding:"omitempty,max=255"`
	Status         *string      `json:"status,omitempty" example:"approved"`
}

func (r *UpdateDepositRequest) ToCommand() usecases.UpdateDepositCommand {
	cmd := usecases.UpdateDepositCommand{
		TokenSymbol:    r.TokenSymbol,
		DepositAddress: r.DepositAddress,
		Status:         r.Status,
	}
	if r.Amount != nil {
		amount := r.Amount.String()
		cmd.Amount = &amount
	}
	return cmd
}

func parseDepositID(c *gin.Context) (uint, error) {
	return parseUintParam(c.Param("id"), "Invalid deposit ID")
}

func parseUintParam(raw, message string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError(message)
	}
	return uint(id), nil
}

// parseListDepositsQuery reads the optional user_id and status filters.
func parseListDepositsQuery(c *gin.Context) (usecases.ListDepositsQuery, error) {
	var query usecases.ListDepositsQuery

	if raw := c.Query("user_id"); raw != "" {
		userID, err := parseUintParam(raw, "Invalid user ID")
		if err != nil {
			return query, err
		}
		query.UserID = &userID
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}

	return query, nil
}
