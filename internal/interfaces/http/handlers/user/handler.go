// Package user serves the per-user views: seeded accounts, their deposits
// and their investment balance.
package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	depositUsecases "github.com/ledgerline/depositd/internal/application/deposit/usecases"
	"github.com/ledgerline/depositd/internal/application/user/dto"
	"github.com/ledgerline/depositd/internal/application/user/usecases"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/utils"
)

type UserHandler struct {
	createUserUC   usecases.CreateUserExecutor
	listDepositsUC depositUsecases.ListDepositsExecutor
	getBalanceUC   depositUsecases.GetBalanceExecutor
	logger         logger.Interface
}

func NewUserHandler(
	createUserUC usecases.CreateUserExecutor,
	listDepositsUC depositUsecases.ListDepositsExecutor,
	getBalanceUC depositUsecases.GetBalanceExecutor,
	log logger.Interface,
) *UserHandler {
	return &UserHandler{
		createUserUC:   createUserUC,
		listDepositsUC: listDepositsUC,
		getBalanceUC:   getBalanceUC,
		logger:         log,
	}
}

// CreateUser handles POST /api/users
//
//	@Summary	Seed user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		user	body		dto.CreateUserRequest	true	"User data"
//	@Success	201		{object}	utils.APIResponse		"User created"
//	@Failure	400		{object}	utils.APIResponse		"Validation error"
//	@Failure	409		{object}	utils.APIResponse		"Email already registered"
//	@Router		/api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.createUserUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "User created successfully")
}

// ListUserDeposits handles GET /api/users/:id/deposits
//
//	@Summary	List a user's deposits
//	@Tags		users
//	@Produce	json
//	@Param		id		path		int					true	"User ID"
//	@Param		status	query		string				false	"Status filter"	Enums(pending, approved, rejected)
//	@Success	200		{object}	utils.APIResponse	"Deposits"
//	@Router		/api/users/{id}/deposits [get]
func (h *UserHandler) ListUserDeposits(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query := depositUsecases.ListDepositsQuery{UserID: &userID}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}

	result, err := h.listDepositsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result, len(result))
}

// GetBalance handles GET /api/users/:id/balance
//
//	@Summary	Get total investment
//	@Tags		users
//	@Produce	json
//	@Param		id	path		int					true	"User ID"
//	@Success	200	{object}	utils.APIResponse	"Balance"
//	@Failure	404	{object}	utils.APIResponse	"User not found"
//	@Router		/api/users/{id}/balance [get]
func (h *UserHandler) GetBalance(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getBalanceUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseUserID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid user ID")
	}
	return uint(id), nil
}
