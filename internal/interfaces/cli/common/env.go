// Package common holds the start-up steps shared by the CLI commands.
package common

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/infrastructure/config"
	"github.com/ledgerline/depositd/internal/infrastructure/database"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// Env is what every command needs once configuration is loaded.
type Env struct {
	Config *config.Config
	Logger logger.Interface
	DB     *gorm.DB
}

// Close releases the database connection.
func (e *Env) Close() {
	if e.DB == nil {
		return
	}
	if err := database.Close(e.DB); err != nil {
		e.Logger.Warnw("failed to close database", "error", err)
	}
}

// LoadConfig reads configuration and initializes the process logger.
func LoadConfig(env, configPath string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(cfg.Server.Mode)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Bootstrap loads configuration and opens the database.
func Bootstrap(env, configPath string) (*Env, error) {
	cfg, log, err := LoadConfig(env, configPath)
	if err != nil {
		return nil, err
	}

	gdb, err := database.Open(&cfg.Database, log.Named("database"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Env{Config: cfg, Logger: log, DB: gdb}, nil
}

// MapEnvToGinMode turns an environment name into a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
