package migration

import (
	"embed"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/shared/logger"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

const (
	golangMigrateDir = "scripts/migrate"
	gooseDir         = "scripts/goose"
)

//go:embed scripts/migrate/*.sql scripts/goose/*.sql
var scriptsFS embed.FS

// Strategy defines the interface for different migration strategies
type Strategy interface {
	Migrate(db *gorm.DB) error
	GetName() string
}

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy for the environment. SQL scripts are written
// for MySQL, so a sqlite database always uses gorm AutoMigrate.
func NewManager(environment, driver string, log logger.Interface) *Manager {
	var strategy Strategy

	switch {
	case strings.EqualFold(driver, "sqlite"):
		strategy = NewGormAutoMigrateStrategy(log)
	case strings.EqualFold(environment, EnvTest), strings.EqualFold(environment, EnvProduction):
		strategy = NewGolangMigrateStrategy(log)
	default:
		strategy = NewGormAutoMigrateStrategy(log)
	}

	return NewManagerWithStrategy(strategy, log)
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
