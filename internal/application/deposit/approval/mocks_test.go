package approval

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/user"
)

type mockPriceOracle struct {
	GetPriceFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)
	calls        int
}

func (m *mockPriceOracle) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	m.calls++
	if m.GetPriceFunc != nil {
		return m.GetPriceFunc(ctx, symbol)
	}
	return decimal.NewFromInt(1), nil
}

type mockUserRepository struct {
	CreateFunc              func(ctx context.Context, u *user.User) error
	ExistsFunc              func(ctx context.Context, id uint) (bool, error)
	ExistsByEmailFunc       func(ctx context.Context, email string) (bool, error)
	GetBalanceFunc          func(ctx context.Context, id uint) (*user.Balance, error)
	GetBalanceForUpdateFunc func(ctx context.Context, id uint) (*user.Balance, error)
	IncrementFunc           func(ctx context.Context, id uint, delta decimal.Decimal) error
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return true, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) GetBalance(ctx context.Context, id uint) (*user.Balance, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, id)
	}
	return &user.Balance{UserID: id}, nil
}

func (m *mockUserRepository) GetBalanceForUpdate(ctx context.Context, id uint) (*user.Balance, error) {
	if m.GetBalanceForUpdateFunc != nil {
		return m.GetBalanceForUpdateFunc(ctx, id)
	}
	return &user.Balance{UserID: id}, nil
}

func (m *mockUserRepository) IncrementInvestment(ctx context.Context, id uint, delta decimal.Decimal) error {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, id, delta)
	}
	return nil
}

type mockDepositRepository struct {
	CreateFunc           func(ctx context.Context, d *deposit.Deposit) error
	GetByIDFunc          func(ctx context.Context, id uint) (*deposit.Deposit, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uint) (*deposit.Deposit, error)
	UpdateFunc           func(ctx context.Context, d *deposit.Deposit) error
	DeleteFunc           func(ctx context.Context, id uint) error
	ListFunc             func(ctx context.Context, filter deposit.ListFilter) ([]*deposit.Deposit, error)
}

func (m *mockDepositRepository) Create(ctx context.Context, d *deposit.Deposit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, d)
	}
	return nil
}

func (m *mockDepositRepository) GetByID(ctx context.Context, id uint) (*deposit.Deposit, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDepositRepository) GetByIDForUpdate(ctx context.Context, id uint) (*deposit.Deposit, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDepositRepository) Update(ctx context.Context, d *deposit.Deposit) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, d)
	}
	d.MarkPersisted(d.Version() + 1)
	return nil
}

func (m *mockDepositRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDepositRepository) List(ctx context.Context, filter deposit.ListFilter) ([]*deposit.Deposit, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

// mockUnitOfWork runs fn directly and records how it ended.
type mockUnitOfWork struct {
	mu        sync.Mutex
	runs      int
	committed int
	aborted   int
}

func (m *mockUnitOfWork) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.runs++
	m.mu.Unlock()

	err := fn(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.aborted++
	} else {
		m.committed++
	}
	return err
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	lookups  int
	credited decimal.Decimal
}

func (m *recordingMetrics) ObserveApproval(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) ObservePriceLookup(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
}

func (m *recordingMetrics) AddCredited(usd decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credited = m.credited.Add(usd)
}
