package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/mappers"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/models"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/db"
	apperrors "github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/money"
)

// UserRepository is the user directory and balance store.
type UserRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := mappers.UserToModel(u)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "email", model.Email, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.SetID(model.ID)
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) GetBalance(ctx context.Context, id uint) (*user.Balance, error) {
	return r.getBalance(db.GetTxFromContext(ctx, r.db), id)
}

func (r *UserRepository) GetBalanceForUpdate(ctx context.Context, id uint) (*user.Balance, error) {
	return r.getBalance(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), id)
}

func (r *UserRepository) getBalance(tx *gorm.DB, id uint) (*user.Balance, error) {
	var model models.UserModel
	if err := tx.Select("id", "total_investment").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get user balance: %w", err)
	}
	return mappers.UserToBalance(&model), nil
}

// IncrementInvestment adds delta to the stored total and writes the rounded
// sum back, so the column never accumulates driver-side arithmetic. Callers
// run it inside the unit of work that holds the user row lock.
func (r *UserRepository) IncrementInvestment(ctx context.Context, id uint, delta decimal.Decimal) error {
	if delta.IsNegative() {
		return fmt.Errorf("total investment can only grow, got delta %s", delta.String())
	}

	current, err := r.GetBalanceForUpdate(ctx, id)
	if err != nil {
		return err
	}
	next := money.Add(current.TotalInvestment, delta)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_investment": next,
			"updated_at":       biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment total investment", "user_id", id, "error", result.Error)
		return fmt.Errorf("failed to increment total investment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", id))
	}
	return nil
}
