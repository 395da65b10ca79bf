package mappers

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/domain/deposit"
	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/models"
	"github.com/ledgerline/depositd/internal/shared/money"
)

func DepositToModel(d *deposit.Deposit) *models.DepositModel {
	return &models.DepositModel{
		ID:                   d.ID(),
		UserID:               d.UserID(),
		TokenSymbol:          d.TokenSymbol().String(),
		Amount:               d.Amount(),
		DepositAddress:       d.DepositAddress(),
		Status:               d.Status().String(),
		TokenPriceAtApproval: toNullDecimal(d.TokenPriceAtApproval()),
		USDValue:             toNullDecimal(d.USDValue()),
		ApprovedAt:           d.ApprovedAt(),
		ApprovalApplied:      d.ApprovalApplied(),
		IsDeposit:            d.IsDeposit(),
		IsWithdraw:           d.IsWithdraw(),
		Version:              d.Version(),
		CreatedAt:            d.CreatedAt(),
		UpdatedAt:            d.UpdatedAt(),
	}
}

func DepositToDomain(model *models.DepositModel) (*deposit.Deposit, error) {
	status, err := vo.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid deposit status in row %d: %w", model.ID, err)
	}
	symbol, err := vo.NewTokenSymbol(model.TokenSymbol)
	if err != nil {
		return nil, fmt.Errorf("invalid token symbol in row %d: %w", model.ID, err)
	}

	var approvedAt = model.ApprovedAt
	if approvedAt != nil {
		at := approvedAt.UTC()
		approvedAt = &at
	}

	return deposit.ReconstructDeposit(deposit.ReconstructParams{
		ID:                   model.ID,
		UserID:               model.UserID,
		TokenSymbol:          symbol,
		Amount:               money.Round(model.Amount),
		DepositAddress:       model.DepositAddress,
		Status:               status,
		TokenPriceAtApproval: fromNullDecimal(model.TokenPriceAtApproval),
		USDValue:             fromNullDecimal(model.USDValue),
		ApprovedAt:           approvedAt,
		ApprovalApplied:      model.ApprovalApplied,
		Version:              model.Version,
		CreatedAt:            model.CreatedAt.UTC(),
		UpdatedAt:            model.UpdatedAt.UTC(),
	}), nil
}

func DepositsToDomain(rows []models.DepositModel) ([]*deposit.Deposit, error) {
	result := make([]*deposit.Deposit, 0, len(rows))
	for i := range rows {
		d, err := DepositToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := money.Round(n.Decimal)
	return &d
}
