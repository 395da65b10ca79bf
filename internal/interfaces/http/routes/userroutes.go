package routes

import (
	"github.com/gin-gonic/gin"

	userhandlers "github.com/ledgerline/depositd/internal/interfaces/http/handlers/user"
)

type UserRouteConfig struct {
	UserHandler *userhandlers.UserHandler
}

func SetupUserRoutes(api *gin.RouterGroup, config *UserRouteConfig) {
	users := api.Group("/users")
	{
		users.POST("", config.UserHandler.CreateUser)

		users.GET("/:id/deposits", config.UserHandler.ListUserDeposits)
		users.GET("/:id/balance", config.UserHandler.GetBalance)
	}
}
