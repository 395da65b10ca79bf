package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/infrastructure/database"
	"github.com/ledgerline/depositd/internal/infrastructure/migration"
	httpRouter "github.com/ledgerline/depositd/internal/interfaces/http"
	"github.com/ledgerline/depositd/internal/interfaces/cli/common"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

const shutdownTimeout = 30 * time.Second

var (
	env         string
	configPath  string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the depositd HTTP API with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	e, err := common.Bootstrap(env, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	log := e.Logger
	cfg := e.Config

	log.Infow("starting server",
		"environment", env,
		"mode", cfg.Server.Mode,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := handleMigrations(e.DB, cfg.Database.Driver, log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := httpRouter.NewContainer(ctx, e.DB, cfg, log, httpRouter.ContainerOptions{})
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	defer container.Shutdown()

	if err := container.Start(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           container.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(db *gorm.DB, driver string, log logger.Interface) error {
	if !autoMigrate {
		if driver == database.DriverSQLite {
			return nil
		}
		strategy := migration.NewGooseStrategy("", log)
		version, err := strategy.GetVersion(db)
		if err != nil {
			log.Warnw("failed to check migration status", "error", err)
			return nil
		}
		log.Infow("current migration version", "version", version)
		return nil
	}

	if env == migration.EnvProduction {
		log.Warnw("auto-migration is enabled in production")
	}

	manager := migration.NewManager(env, driver, log)
	if err := manager.Migrate(db); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	log.Infow("auto-migration completed", "strategy", manager.GetStrategy().GetName())
	return nil
}
