package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/mappers"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/models"
	"github.com/ledgerline/depositd/internal/shared/db"
	apperrors "github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// DepositRepository stores deposits in the transactions table. Every query is
// scoped to deposit-kind rows.
type DepositRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewDepositRepository(db *gorm.DB, logger logger.Interface) *DepositRepository {
	return &DepositRepository{
		db:     db,
		logger: logger,
	}
}

var _ deposit.Repository = (*DepositRepository)(nil)

func (r *DepositRepository) Create(ctx context.Context, d *deposit.Deposit) error {
	model := mappers.DepositToModel(d)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create deposit", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create deposit: %w", err)
	}

	d.SetID(model.ID)
	return nil
}

func (r *DepositRepository) GetByID(ctx context.Context, id uint) (*deposit.Deposit, error) {
	return r.get(db.GetTxFromContext(ctx, r.db), id)
}

func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, id uint) (*deposit.Deposit, error) {
	if !db.InTransaction(ctx) {
		return nil, fmt.Errorf("GetByIDForUpdate requires a transaction")
	}
	return r.get(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), id)
}

func (r *DepositRepository) get(tx *gorm.DB, id uint) (*deposit.Deposit, error) {
	var model models.DepositModel

	if err := tx.Scopes(db.DepositKind()).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("deposit not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}

	return mappers.DepositToDomain(&model)
}

// Update writes every mutable column with optimistic locking on version. The
// kind flags and creation columns are never part of the statement.
func (r *DepositRepository) Update(ctx context.Context, d *deposit.Deposit) error {
	model := mappers.DepositToModel(d)
	next := model.Version + 1

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.DepositModel{}).
		Scopes(db.DepositKind()).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"token_symbol":            model.TokenSymbol,
			"amount":                  model.Amount,
			"deposit_address":         model.DepositAddress,
			"status":                  model.Status,
			"token_price_at_approval": model.TokenPriceAtApproval,
			"usd_value":               model.USDValue,
			"approved_at":             model.ApprovedAt,
			"approval_applied":        model.ApprovalApplied,
			"version":                 next,
			"updated_at":              model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update deposit", "deposit_id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update deposit: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, model.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NewNotFoundError("deposit not found", fmt.Sprintf("%d", model.ID))
		}
		return apperrors.NewConflictError("deposit was modified concurrently",
			fmt.Sprintf("version %d is stale", model.Version))
	}

	d.MarkPersisted(next)
	return nil
}

func (r *DepositRepository) exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.DepositModel{}).
		Scopes(db.DepositKind()).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check deposit existence: %w", err)
	}
	return count > 0, nil
}

// Delete removes the row permanently.
func (r *DepositRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Scopes(db.DepositKind()).
		Delete(&models.DepositModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete deposit", "deposit_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete deposit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("deposit not found", fmt.Sprintf("%d", id))
	}
	return nil
}

func (r *DepositRepository) List(ctx context.Context, filter deposit.ListFilter) ([]*deposit.Deposit, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.DepositModel{}).
		Scopes(db.DepositKind())

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	var rows []models.DepositModel
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}

	return mappers.DepositsToDomain(rows)
}
