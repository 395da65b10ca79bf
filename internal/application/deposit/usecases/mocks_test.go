package usecases

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/application/deposit/approval"
	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/application/deposit/notifier"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/user"
)

type mockDepositRepository struct {
	CreateFunc           func(ctx context.Context, d *deposit.Deposit) error
	GetByIDFunc          func(ctx context.Context, id uint) (*deposit.Deposit, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uint) (*deposit.Deposit, error)
	UpdateFunc           func(ctx context.Context, d *deposit.Deposit) error
	DeleteFunc           func(ctx context.Context, id uint) error
	ListFunc             func(ctx context.Context, filter deposit.ListFilter) ([]*deposit.Deposit, error)

	updateCalls int
	listCalls   int
}

func (m *mockDepositRepository) Create(ctx context.Context, d *deposit.Deposit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, d)
	}
	d.SetID(1)
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
	m.updateCalls++
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
	m.listCalls++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
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

type mockApprover struct {
	ApproveFunc func(ctx context.Context, working *deposit.Deposit) (*approval.Result, error)
	calls       int
}

func (m *mockApprover) Approve(ctx context.Context, working *deposit.Deposit) (*approval.Result, error) {
	m.calls++
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, working)
	}
	return &approval.Result{Deposit: working, Balance: &user.Balance{UserID: working.UserID()}, Credited: true}, nil
}

type mockAuditSink struct {
	RecordFunc func(ctx context.Context, event auditsink.Event) error

	mu     sync.Mutex
	events []auditsink.Event
}

func (m *mockAuditSink) Record(ctx context.Context, event auditsink.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, event)
	}
	return nil
}

type mockNotifier struct {
	NotifyFunc func(ctx context.Context, n notifier.Notification) error

	sent []notifier.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, n notifier.Notification) error {
	m.sent = append(m.sent, n)
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, n)
	}
	return nil
}

// memoryListCache is a map-backed list cache.
type memoryListCache struct {
	mu      sync.Mutex
	entries map[uint]map[string][]*dto.DepositDTO
	gens    map[uint]int64
	gets    int
	dropped int
}

func newMemoryListCache() *memoryListCache {
	return &memoryListCache{
		entries: make(map[uint]map[string][]*dto.DepositDTO),
		gens:    make(map[uint]int64),
	}
}

func (c *memoryListCache) Get(ctx context.Context, userID uint, status string) ([]*dto.DepositDTO, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	items, ok := c.entries[userID][status]
	return items, ok, nil
}

func (c *memoryListCache) Generation(ctx context.Context, userID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID], nil
}

func (c *memoryListCache) Set(ctx context.Context, userID uint, status string, gen int64, items []*dto.DepositDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[userID] != gen {
		c.dropped++
		return nil
	}
	if c.entries[userID] == nil {
		c.entries[userID] = make(map[string][]*dto.DepositDTO)
	}
	c.entries[userID][status] = items
	return nil
}

func (c *memoryListCache) Invalidate(ctx context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	delete(c.entries, userID)
	return nil
}
