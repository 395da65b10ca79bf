package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/infrastructure/persistence/models"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// AutoMigrateModels lists every table the service owns.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.DepositModel{},
		&models.AuditLogModel{},
		&models.NotificationModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the gorm models.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) Strategy {
	return &GormAutoMigrateStrategy{
		logger: log.With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	models := AutoMigrateModels()
	s.logger.Infow("running gorm auto-migrate", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_automigrate"
}
