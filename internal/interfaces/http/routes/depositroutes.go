package routes

import (
	"github.com/gin-gonic/gin"

	deposithandlers "github.com/ledgerline/depositd/internal/interfaces/http/handlers/deposit"
)

type DepositRouteConfig struct {
	DepositHandler *deposithandlers.DepositHandler
}

func SetupDepositRoutes(api *gin.RouterGroup, config *DepositRouteConfig) {
	deposits := api.Group("/deposits")
	{
		deposits.POST("", config.DepositHandler.CreateDeposit)
		deposits.GET("", config.DepositHandler.ListDeposits)

		deposits.GET("/:id", config.DepositHandler.GetDeposit)
		deposits.PATCH("/:id", config.DepositHandler.UpdateDeposit)
		deposits.DELETE("/:id", config.DepositHandler.DeleteDeposit)
	}
}
