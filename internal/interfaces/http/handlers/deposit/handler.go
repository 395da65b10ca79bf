package deposit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/depositd/internal/application/deposit/usecases"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/utils"
)

type DepositHandler struct {
	createDepositUC usecases.CreateDepositExecutor
	updateDepositUC usecases.UpdateDepositExecutor
	deleteDepositUC usecases.DeleteDepositExecutor
	getDepositUC    usecases.GetDepositExecutor
	listDepositsUC  usecases.ListDepositsExecutor
	logger          logger.Interface
}

func NewDepositHandler(
	createDepositUC usecases.CreateDepositExecutor,
	updateDepositUC usecases.UpdateDepositExecutor,
	deleteDepositUC usecases.DeleteDepositExecutor,
	getDepositUC usecases.GetDepositExecutor,
	listDepositsUC usecases.ListDepositsExecutor,
	log logger.Interface,
) *DepositHandler {
	return &DepositHandler{
		createDepositUC: createDepositUC,
		updateDepositUC: updateDepositUC,
		deleteDepositUC: deleteDepositUC,
		getDepositUC:    getDepositUC,
		listDepositsUC:  listDepositsUC,
		logger:          log,
	}
}

// CreateDeposit handles POST /api/deposits
//
//	@Summary		Create deposit
//	@Description	Record a new deposit. Deposits can only be approved by a later update.
//	@Tags			deposits
//	@Accept			json
//	@Produce		json
//	@Param			deposit	body		CreateDepositRequest	true	"Deposit data"
//	@Success		201		{object}	utils.APIResponse		"Deposit created"
//	@Failure		400		{object}	utils.APIResponse		"Validation error"
//	@Failure		404		{object}	utils.APIResponse		"User not found"
//	@Failure		500		{object}	utils.APIResponse		"Internal server error"
//	@Router			/api/deposits [post]
func (h *DepositHandler) CreateDeposit(c *gin.Context) {
	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create deposit", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.createDepositUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Deposit created successfully")
}

// GetDeposit handles GET /api/deposits/:id
//
//	@Summary	Get deposit
//	@Tags		deposits
//	@Produce	json
//	@Param		id	path		int					true	"Deposit ID"
//	@Success	200	{object}	utils.APIResponse	"Deposit"
//	@Failure	404	{object}	utils.APIResponse	"Deposit not found"
//	@Router		/api/deposits/{id} [get]
func (h *DepositHandler) GetDeposit(c *gin.Context) {
	depositID, err := parseDepositID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getDepositUC.Execute(c.Request.Context(), depositID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListDeposits handles GET /api/deposits
//
//	@Summary		List deposits
//	@Description	Admin listing across all users. Filter by user_id and status.
//	@Tags			deposits
//	@Produce		json
//	@Param			user_id	query		int					false	"Owner filter"
//	@Param			status	query		string				false	"Status filter"	Enums(pending, approved, rejected)
//	@Success		200		{object}	utils.APIResponse	"Deposits"
//	@Failure		400		{object}	utils.APIResponse	"Invalid filter"
//	@Router			/api/deposits [get]
func (h *DepositHandler) ListDeposits(c *gin.Context) {
	query, err := parseListDepositsQuery(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listDepositsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result, len(result))
}

// UpdateDeposit handles PATCH /api/deposits/:id
//
//	@Summary		Update deposit
//	@Description	Partial edit. Setting status to approved credits the owner's total investment once.
//	@Tags			deposits
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Deposit ID"
//	@Param			deposit	body		UpdateDepositRequest	true	"Fields to change"
//	@Success		200		{object}	utils.APIResponse		"Deposit updated"
//	@Failure		400		{object}	utils.APIResponse		"Validation error"
//	@Failure		404		{object}	utils.APIResponse		"Deposit not found"
//	@Failure		409		{object}	utils.APIResponse		"Concurrent modification"
//	@Failure		422		{object}	utils.APIResponse		"Field frozen after approval"
//	@Failure		503		{object}	utils.APIResponse		"Price unavailable"
//	@Router			/api/deposits/{id} [patch]
func (h *DepositHandler) UpdateDeposit(c *gin.Context) {
	depositID, err := parseDepositID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update deposit", "deposit_id", depositID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.updateDepositUC.Execute(c.Request.Context(), depositID, req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Deposit updated successfully", result)
}

// DeleteDeposit handles DELETE /api/deposits/:id
//
//	@Summary		Delete deposit
//	@Description	Hard delete. Credited investment is not reversed.
//	@Tags			deposits
//	@Produce		json
//	@Param			id	path		int					true	"Deposit ID"
//	@Success		200	{object}	utils.APIResponse	"Deleted deposit"
//	@Failure		404	{object}	utils.APIResponse	"Deposit not found"
//	@Router			/api/deposits/{id} [delete]
func (h *DepositHandler) DeleteDeposit(c *gin.Context) {
	depositID, err := parseDepositID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.deleteDepositUC.Execute(c.Request.Context(), depositID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Deposit deleted successfully", result)
}
