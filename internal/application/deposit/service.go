// Package deposit wires the deposit use cases into one application service.
package deposit

import (
	"context"
	"time"

	"github.com/ledgerline/depositd/internal/application/deposit/approval"
	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/application/deposit/listcache"
	"github.com/ledgerline/depositd/internal/application/deposit/notifier"
	"github.com/ledgerline/depositd/internal/application/deposit/priceoracle"
	"github.com/ledgerline/depositd/internal/application/deposit/usecases"
	domainDeposit "github.com/ledgerline/depositd/internal/domain/deposit"
	domainUser "github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/db"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// Dependencies are the collaborators of the deposit service.
type Dependencies struct {
	Deposits   domainDeposit.Repository
	Users      domainUser.Repository
	UnitOfWork db.UnitOfWork
	Oracle     priceoracle.PriceOracle
	Audit      auditsink.Sink
	Notifier   notifier.Notifier
	ListCache  listcache.Cache
	Metrics    approval.Metrics
	Clock      biztime.Clock
	Logger     logger.Interface
}

// Options tunes the service.
type Options struct {
	PriceTimeout time.Duration
}

// Service is the deposit lifecycle service.
type Service struct {
	createUC  *usecases.CreateDepositUseCase
	updateUC  *usecases.UpdateDepositUseCase
	deleteUC  *usecases.DeleteDepositUseCase
	getUC     *usecases.GetDepositUseCase
	listUC    *usecases.ListDepositsUseCase
	balanceUC *usecases.GetBalanceUseCase
}

func NewService(deps Dependencies, opts Options) *Service {
	engine := approval.NewEngine(
		deps.Oracle,
		deps.Users,
		deps.Deposits,
		deps.UnitOfWork,
		opts.PriceTimeout,
		deps.Clock,
		deps.Metrics,
		deps.Logger.Named("approval"),
	)

	return &Service{
		createUC:  usecases.NewCreateDepositUseCase(deps.Deposits, deps.Users, deps.Notifier, deps.Audit, deps.Clock, deps.Logger),
		updateUC:  usecases.NewUpdateDepositUseCase(deps.Deposits, engine, deps.Audit, deps.Clock, deps.Logger),
		deleteUC:  usecases.NewDeleteDepositUseCase(deps.Deposits, deps.Audit, deps.Logger),
		getUC:     usecases.NewGetDepositUseCase(deps.Deposits, deps.Logger),
		listUC:    usecases.NewListDepositsUseCase(deps.Deposits, deps.ListCache, deps.Audit, deps.Logger),
		balanceUC: usecases.NewGetBalanceUseCase(deps.Users, deps.Logger),
	}
}

func (s *Service) CreateDeposit(ctx context.Context, cmd usecases.CreateDepositCommand) (*dto.DepositDTO, error) {
	return s.createUC.Execute(ctx, cmd)
}

func (s *Service) UpdateDeposit(ctx context.Context, id uint, cmd usecases.UpdateDepositCommand) (*dto.DepositDTO, error) {
	return s.updateUC.Execute(ctx, id, cmd)
}

func (s *Service) DeleteDeposit(ctx context.Context, id uint) (*dto.DepositDTO, error) {
	return s.deleteUC.Execute(ctx, id)
}

func (s *Service) GetDeposit(ctx context.Context, id uint) (*dto.DepositDTO, error) {
	return s.getUC.Execute(ctx, id)
}

func (s *Service) ListDeposits(ctx context.Context, query usecases.ListDepositsQuery) ([]*dto.DepositDTO, error) {
	return s.listUC.Execute(ctx, query)
}

// ListForUser lists one user's deposits.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]*dto.DepositDTO, error) {
	return s.listUC.Execute(ctx, usecases.ListDepositsQuery{UserID: &userID})
}

// ListForUserByStatus lists one user's deposits in the given status.
func (s *Service) ListForUserByStatus(ctx context.Context, userID uint, status string) ([]*dto.DepositDTO, error) {
	return s.listUC.Execute(ctx, usecases.ListDepositsQuery{UserID: &userID, Status: &status})
}

// ListAll is the admin-wide listing.
func (s *Service) ListAll(ctx context.Context) ([]*dto.DepositDTO, error) {
	return s.listUC.Execute(ctx, usecases.ListDepositsQuery{})
}

func (s *Service) GetBalance(ctx context.Context, userID uint) (*dto.BalanceDTO, error) {
	return s.balanceUC.Execute(ctx, userID)
}

// Use case accessors for handlers that depend on a single executor.

func (s *Service) CreateDepositUseCase() usecases.CreateDepositExecutor { return s.createUC }
func (s *Service) UpdateDepositUseCase() usecases.UpdateDepositExecutor { return s.updateUC }
func (s *Service) DeleteDepositUseCase() usecases.DeleteDepositExecutor { return s.deleteUC }
func (s *Service) GetDepositUseCase() usecases.GetDepositExecutor       { return s.getUC }
func (s *Service) ListDepositsUseCase() usecases.ListDepositsExecutor   { return s.listUC }
func (s *Service) GetBalanceUseCase() usecases.GetBalanceExecutor       { return s.balanceUC }
