// Package approval credits a user's investment balance when one of their
// deposits is approved. The credit and the deposit's approval snapshot are
// written in one unit of work and are applied at most once per deposit.
package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/application/deposit/priceoracle"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/db"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/money"
)

// Outcome labels reported to Metrics.
const (
	OutcomeCredited         = "credited"
	OutcomeReplayed         = "replayed"
	OutcomePriceUnavailable = "price_unavailable"
	OutcomeUserNotFound     = "user_not_found"
	OutcomeConflict         = "conflict"
	OutcomeError            = "error"
)

// Metrics receives approval measurements.
type Metrics interface {
	ObserveApproval(outcome string)
	ObservePriceLookup(elapsed time.Duration)
	AddCredited(usd decimal.Decimal)
}

type nopMetrics struct{}

func (nopMetrics) ObserveApproval(string)           {}
func (nopMetrics) ObservePriceLookup(time.Duration) {}
func (nopMetrics) AddCredited(decimal.Decimal)      {}

// NopMetrics discards all measurements.
func NopMetrics() Metrics { return nopMetrics{} }

// Result is the state committed by a successful approval.
type Result struct {
	Deposit *deposit.Deposit
	Balance *user.Balance
	// Credited is false when the snapshot had already been applied and the
	// balance was left alone.
	Credited bool
}

type Engine struct {
	oracle       priceoracle.PriceOracle
	users        user.Repository
	deposits     deposit.Repository
	uow          db.UnitOfWork
	priceTimeout time.Duration
	clock        biztime.Clock
	metrics      Metrics
	logger       logger.Interface
}

func NewEngine(
	oracle priceoracle.PriceOracle,
	users user.Repository,
	deposits deposit.Repository,
	uow db.UnitOfWork,
	priceTimeout time.Duration,
	clock biztime.Clock,
	metrics Metrics,
	logger logger.Interface,
) *Engine {
	if clock == nil {
		clock = biztime.SystemClock
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &Engine{
		oracle:       oracle,
		users:        users,
		deposits:     deposits,
		uow:          uow,
		priceTimeout: priceTimeout,
		clock:        clock,
		metrics:      metrics,
		logger:       logger,
	}
}

// Approve persists working, whose status is already approved, together with
// the balance credit. working must carry the version it was loaded with and is
// not modified; the committed copy is returned in the Result. Nothing is
// written unless every step succeeds.
func (e *Engine) Approve(ctx context.Context, working *deposit.Deposit) (*Result, error) {
	log := e.logger.With("deposit_id", working.ID(), "user_id", working.UserID())

	if !working.Status().IsApproved() {
		return nil, errors.NewInternalError("approval requested for a deposit that is not approved")
	}

	// a deposit re-entering approved keeps its snapshot and needs no quote
	var price, usd decimal.Decimal
	if !working.ApprovalApplied() {
		var err error
		price, err = e.lookupPrice(ctx, working)
		if err != nil {
			e.metrics.ObserveApproval(OutcomePriceUnavailable)
			log.Warnw("price lookup failed, approval aborted", "token_symbol", working.TokenSymbol().String(), "error", err)
			return nil, err
		}
		usd = money.Mul(price, working.Amount())
	}

	var result *Result
	err := e.uow.RunInTransaction(ctx, func(txCtx context.Context) error {
		// user row first, then the deposit row
		if _, err := e.users.GetBalanceForUpdate(txCtx, working.UserID()); err != nil {
			if errors.IsNotFoundError(err) {
				return errors.NewUserNotFoundError(working.UserID())
			}
			return fmt.Errorf("lock user balance: %w", err)
		}

		stored, err := e.deposits.GetByIDForUpdate(txCtx, working.ID())
		if err != nil {
			return err
		}

		// working stays untouched if the unit of work rolls back
		candidate := working.Clone()
		credited := false
		if stored.ApprovalApplied() {
			if err := candidate.AdoptApproval(stored); err != nil {
				return err
			}
		} else {
			if stored.Version() != working.Version() {
				return errors.NewConflictError("deposit was modified concurrently",
					fmt.Sprintf("expected version %d, found %d", working.Version(), stored.Version()))
			}
			if err := candidate.RecordApproval(price, usd, e.clock()); err != nil {
				return err
			}
			if err := e.users.IncrementInvestment(txCtx, working.UserID(), usd); err != nil {
				return fmt.Errorf("credit balance: %w", err)
			}
			credited = true
		}

		if err := e.deposits.Update(txCtx, candidate); err != nil {
			return err
		}

		balance, err := e.users.GetBalance(txCtx, working.UserID())
		if err != nil {
			return fmt.Errorf("read balance: %w", err)
		}

		result = &Result{Deposit: candidate, Balance: balance, Credited: credited}
		return nil
	})
	if err != nil {
		appErr := errors.AsAppError(err, "approval failed")
		e.metrics.ObserveApproval(outcomeOf(appErr))
		log.Errorw("approval rolled back", "error_type", string(appErr.Type), "error", err)
		return nil, appErr
	}

	if result.Credited {
		e.metrics.ObserveApproval(OutcomeCredited)
		e.metrics.AddCredited(*result.Deposit.USDValue())
		log.Infow("deposit approved and balance credited",
			"usd_value", money.Format(*result.Deposit.USDValue()),
			"total_investment", money.Format(result.Balance.TotalInvestment))
	} else {
		e.metrics.ObserveApproval(OutcomeReplayed)
		log.Infow("approval already applied, balance left unchanged")
	}

	return result, nil
}

func (e *Engine) lookupPrice(ctx context.Context, d *deposit.Deposit) (decimal.Decimal, error) {
	symbol := d.TokenSymbol().String()

	if e.priceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.priceTimeout)
		defer cancel()
	}

	start := time.Now()
	price, err := e.oracle.GetPrice(ctx, symbol)
	e.metrics.ObservePriceLookup(time.Since(start))

	if err != nil {
		return decimal.Zero, errors.NewPriceUnavailableError(symbol, err.Error()).WithCause(err)
	}
	if !price.IsPositive() {
		return decimal.Zero, errors.NewPriceUnavailableError(symbol,
			fmt.Sprintf("non-positive quote %s", price.String()))
	}
	return price, nil
}

func outcomeOf(err *errors.AppError) string {
	switch err.Type {
	case errors.ErrorTypePriceUnavailable:
		return OutcomePriceUnavailable
	case errors.ErrorTypeUserNotFound:
		return OutcomeUserNotFound
	case errors.ErrorTypeConflict:
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
