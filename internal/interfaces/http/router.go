package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprom "github.com/zsais/go-gin-prometheus"

	_ "github.com/ledgerline/depositd/docs"
	"github.com/ledgerline/depositd/internal/interfaces/http/handlers"
	deposithandlers "github.com/ledgerline/depositd/internal/interfaces/http/handlers/deposit"
	userhandlers "github.com/ledgerline/depositd/internal/interfaces/http/handlers/user"
	"github.com/ledgerline/depositd/internal/interfaces/http/middleware"
	"github.com/ledgerline/depositd/internal/interfaces/http/routes"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// RouterDeps are the handlers and switches the router needs.
type RouterDeps struct {
	DepositHandler *deposithandlers.DepositHandler
	UserHandler    *userhandlers.UserHandler
	HealthHandler  *handlers.HealthHandler
	AllowedOrigins []string
	// MetricsSubsystem enables the /metrics endpoint when set.
	MetricsSubsystem string
	EnableSwagger    bool
	Logger           logger.Interface
}

// Router represents the HTTP router configuration
type Router struct {
	engine *gin.Engine
	deps   RouterDeps
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		engine: gin.New(),
		deps:   deps,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	if r.deps.MetricsSubsystem != "" {
		p := ginprom.NewPrometheus(r.deps.MetricsSubsystem)
		// label by route template so ids do not explode cardinality
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
			if path := c.FullPath(); path != "" {
				return path
			}
			return "unmatched"
		}
		p.Use(r.engine)
	}

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.deps.Logger))
	r.engine.Use(middleware.Recovery(r.deps.Logger))
	r.engine.Use(middleware.CORS(r.deps.AllowedOrigins))

	if r.deps.EnableSwagger {
		r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.engine.GET("/health", r.deps.HealthHandler.HealthCheck)

	api := r.engine.Group("/api")
	routes.SetupDepositRoutes(api, &routes.DepositRouteConfig{
		DepositHandler: r.deps.DepositHandler,
	})
	routes.SetupUserRoutes(api, &routes.UserRouteConfig{
		UserHandler: r.deps.UserHandler,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
