package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	depositApp "github.com/ledgerline/depositd/internal/application/deposit"
	"github.com/ledgerline/depositd/internal/application/deposit/approval"
	"github.com/ledgerline/depositd/internal/application/deposit/listcache"
	userUsecases "github.com/ledgerline/depositd/internal/application/user/usecases"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/shared/events"
	"github.com/ledgerline/depositd/internal/infrastructure/audit"
	"github.com/ledgerline/depositd/internal/infrastructure/cache"
	"github.com/ledgerline/depositd/internal/infrastructure/config"
	"github.com/ledgerline/depositd/internal/infrastructure/email"
	"github.com/ledgerline/depositd/internal/infrastructure/metrics"
	"github.com/ledgerline/depositd/internal/infrastructure/notification"
	"github.com/ledgerline/depositd/internal/infrastructure/priceoracle"
	"github.com/ledgerline/depositd/internal/infrastructure/repository"
	"github.com/ledgerline/depositd/internal/interfaces/http/handlers"
	deposithandlers "github.com/ledgerline/depositd/internal/interfaces/http/handlers/deposit"
	userhandlers "github.com/ledgerline/depositd/internal/interfaces/http/handlers/user"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/db"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/services/markdown"
)

// Container wires infrastructure, the deposit service and the HTTP handlers
// together, and owns the background pieces that need an orderly Shutdown.
type Container struct {
	cfg *config.Config
	db  *gorm.DB
	log logger.Interface

	redis      *redis.Client
	dispatcher *events.InMemoryEventDispatcher

	depositService *depositApp.Service
	router         *Router
}

// ContainerOptions tune wiring for the caller. The zero value is the
// production setup.
type ContainerOptions struct {
	Clock biztime.Clock
	// Registerer receives the approval metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

func NewContainer(ctx context.Context, gdb *gorm.DB, cfg *config.Config, log logger.Interface, opts ContainerOptions) (*Container, error) {
	clock := opts.Clock
	if clock == nil {
		clock = biztime.SystemClock
	}

	c := &Container{cfg: cfg, db: gdb, log: log}

	listCache, err := c.newListCache(ctx)
	if err != nil {
		return nil, err
	}

	oracle, err := priceoracle.New(cfg.Oracle, clock, log.Named("oracle"))
	if err != nil {
		c.closeRedis()
		return nil, fmt.Errorf("failed to build price oracle: %w", err)
	}

	approvalMetrics := approval.NopMetrics()
	if cfg.Metrics.Enabled {
		reg := opts.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		approvalMetrics = metrics.NewApprovalMetrics(reg, cfg.Metrics.Subsystem)
	}

	c.dispatcher = events.NewInMemoryEventDispatcher(cfg.Notification.BufferSize, log.Named("events"))

	var sender email.Sender
	if cfg.Notification.Email.Enabled {
		sender = email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Notification.Email.SMTPHost,
			Port:        cfg.Notification.Email.SMTPPort,
			Username:    cfg.Notification.Email.SMTPUser,
			Password:    cfg.Notification.Email.SMTPPassword,
			FromAddress: cfg.Notification.Email.FromAddress,
			FromName:    cfg.Notification.Email.FromName,
		})
	}
	createdHandler := notification.NewDepositCreatedHandler(gdb, markdown.NewRenderer(), sender, clock, log.Named("notification"))
	if err := c.dispatcher.Subscribe(deposit.EventTypeDepositCreated, createdHandler); err != nil {
		c.closeRedis()
		return nil, fmt.Errorf("failed to subscribe notification handler: %w", err)
	}

	userRepo := repository.NewUserRepository(gdb, log)
	depositRepo := repository.NewDepositRepository(gdb, log)

	c.depositService = depositApp.NewService(depositApp.Dependencies{
		Deposits:   depositRepo,
		Users:      userRepo,
		UnitOfWork: db.NewTransactionManager(gdb),
		Oracle:     oracle,
		Audit:      audit.NewGormAuditSink(gdb, listCache, clock, log.Named("audit")),
		Notifier:   notification.NewEventNotifier(c.dispatcher, clock, log),
		ListCache:  listCache,
		Metrics:    approvalMetrics,
		Clock:      clock,
		Logger:     log.Named("deposit"),
	}, depositApp.Options{
		PriceTimeout: cfg.Approval.PriceTimeout,
	})

	sqlDB, err := gdb.DB()
	if err != nil {
		c.closeRedis()
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	svc := c.depositService
	depositHandler := deposithandlers.NewDepositHandler(
		svc.CreateDepositUseCase(),
		svc.UpdateDepositUseCase(),
		svc.DeleteDepositUseCase(),
		svc.GetDepositUseCase(),
		svc.ListDepositsUseCase(),
		log,
	)
	userHandler := userhandlers.NewUserHandler(
		userUsecases.NewCreateUserUseCase(userRepo, clock, log),
		svc.ListDepositsUseCase(),
		svc.GetBalanceUseCase(),
		log,
	)

	metricsSubsystem := ""
	if cfg.Metrics.Enabled {
		metricsSubsystem = cfg.Metrics.Subsystem
	}

	c.router = NewRouter(RouterDeps{
		DepositHandler:   depositHandler,
		UserHandler:      userHandler,
		HealthHandler:    handlers.NewHealthHandler(sqlDB, log),
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		MetricsSubsystem: metricsSubsystem,
		EnableSwagger:    cfg.Server.Mode != gin.ReleaseMode,
		Logger:           log.Named("http"),
	})
	c.router.SetupRoutes()

	return c, nil
}

func (c *Container) newListCache(ctx context.Context) (listcache.Cache, error) {
	if !c.cfg.Redis.Enabled {
		c.log.Infow("redis disabled, deposit list cache is off")
		return cache.NoopDepositListCache{}, nil
	}

	client, err := cache.NewRedisClient(ctx, &c.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.redis = client
	c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())

	return cache.NewRedisDepositListCache(client, c.log.Named("cache")), nil
}

// Start launches the event dispatcher.
func (c *Container) Start() error {
	if err := c.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	c.log.Infow("event dispatcher started")
	return nil
}

func (c *Container) Engine() *gin.Engine {
	return c.router.GetEngine()
}

func (c *Container) DepositService() *depositApp.Service {
	return c.depositService
}

// Shutdown drains queued events and closes redis. The database belongs to the
// caller.
func (c *Container) Shutdown() {
	if err := c.dispatcher.Stop(); err != nil {
		c.log.Errorw("failed to stop event dispatcher", "error", err)
	}
	c.closeRedis()
}

func (c *Container) closeRedis() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		c.log.Warnw("failed to close redis client", "error", err)
	}
	c.redis = nil
}
