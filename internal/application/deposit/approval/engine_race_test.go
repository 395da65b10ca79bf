package approval

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/user"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	apperrors "github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// lockingStore is an in-memory store with row locks held until the end of the
// transaction and writes buffered until commit, the way InnoDB behaves.
type lockingStore struct {
	mu      sync.Mutex
	stored  *deposit.Deposit
	balance decimal.Decimal
	credits int

	userRow    chan struct{}
	depositRow chan struct{}

	// when false, locking reads are plain snapshot reads
	lockingReads bool
	// when set, every deposit read waits here so all transactions read
	// before any of them writes
	readBarrier *sync.WaitGroup
}

type lockingTx struct {
	userLocked    bool
	depositLocked bool
	delta         decimal.Decimal
	credits       int
	update        *deposit.Deposit
}

type lockingTxKey struct{}

func newLockingStore(stored *deposit.Deposit) *lockingStore {
	return &lockingStore{
		stored:     stored,
		balance:    decimal.Zero,
		userRow:    make(chan struct{}, 1),
		depositRow: make(chan struct{}, 1),
	}
}

func txFrom(ctx context.Context) *lockingTx {
	return ctx.Value(lockingTxKey{}).(*lockingTx)
}

func (s *lockingStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &lockingTx{delta: decimal.Zero}
	err := fn(context.WithValue(ctx, lockingTxKey{}, tx))
	if err == nil {
		s.mu.Lock()
		s.balance = s.balance.Add(tx.delta)
		s.credits += tx.credits
		if tx.update != nil {
			s.stored = tx.update
		}
		s.mu.Unlock()
	}
	if tx.depositLocked {
		<-s.depositRow
	}
	if tx.userLocked {
		<-s.userRow
	}
	return err
}

func (s *lockingStore) lockUser(tx *lockingTx) {
	if !tx.userLocked {
		s.userRow <- struct{}{}
		tx.userLocked = true
	}
}

func (s *lockingStore) lockDeposit(tx *lockingTx) {
	if !tx.depositLocked {
		s.depositRow <- struct{}{}
		tx.depositLocked = true
	}
}

func (s *lockingStore) committedBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

func (s *lockingStore) users() *mockUserRepository {
	return &mockUserRepository{
		GetBalanceForUpdateFunc: func(ctx context.Context, id uint) (*user.Balance, error) {
			if s.lockingReads {
				s.lockUser(txFrom(ctx))
			}
			return &user.Balance{UserID: id, TotalInvestment: s.committedBalance()}, nil
		},
		GetBalanceFunc: func(ctx context.Context, id uint) (*user.Balance, error) {
			return &user.Balance{UserID: id, TotalInvestment: s.committedBalance().Add(txFrom(ctx).delta)}, nil
		},
		IncrementFunc: func(ctx context.Context, id uint, delta decimal.Decimal) error {
			tx := txFrom(ctx)
			s.lockUser(tx)
			tx.delta = tx.delta.Add(delta)
			tx.credits++
			return nil
		},
	}
}

func (s *lockingStore) deposits() *mockDepositRepository {
	return &mockDepositRepository{
		GetByIDForUpdateFunc: func(ctx context.Context, id uint) (*deposit.Deposit, error) {
			if s.lockingReads {
				s.lockDeposit(txFrom(ctx))
			}
			s.mu.Lock()
			d := s.stored.Clone()
			s.mu.Unlock()
			if s.readBarrier != nil {
				s.readBarrier.Done()
				s.readBarrier.Wait()
			}
			return d, nil
		},
		UpdateFunc: func(ctx context.Context, d *deposit.Deposit) error {
			tx := txFrom(ctx)
			s.lockDeposit(tx)
			s.mu.Lock()
			current := s.stored.Version()
			s.mu.Unlock()
			if current != d.Version() {
				return apperrors.NewConflictError("deposit was modified concurrently")
			}
			d.MarkPersisted(d.Version() + 1)
			tx.update = d.Clone()
			return nil
		},
	}
}

// gatedOracle holds every caller until all expected callers have asked, so
// the approvals enter their transactions together.
type gatedOracle struct {
	price decimal.Decimal
	gate  sync.WaitGroup
}

func newGatedOracle(price string, callers int) *gatedOracle {
	o := &gatedOracle{price: dec(price)}
	o.gate.Add(callers)
	return o
}

func (o *gatedOracle) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	o.gate.Done()
	o.gate.Wait()
	return o.price, nil
}

type raceOutcome struct {
	credited  atomic.Int32
	replayed  atomic.Int32
	conflicts atomic.Int32
	other     atomic.Int32
}

func approveConcurrently(t *testing.T, s *lockingStore, oracle *gatedOracle, attempts int) *raceOutcome {
	t.Helper()

	engine := NewEngine(oracle, s.users(), s.deposits(), s, time.Second,
		biztime.Fixed(approvalTime), NopMetrics(), logger.NewNopLogger())

	working := make([]*deposit.Deposit, attempts)
	for i := range working {
		working[i] = approvingCopy(t, s.stored)
	}

	out := &raceOutcome{}
	var wg sync.WaitGroup
	for _, w := range working {
		wg.Add(1)
		go func(w *deposit.Deposit) {
			defer wg.Done()
			result, err := engine.Approve(context.Background(), w)
			switch {
			case err == nil && result.Credited:
				out.credited.Add(1)
			case err == nil:
				out.replayed.Add(1)
			case apperrors.IsConflictError(err):
				out.conflicts.Add(1)
			default:
				out.other.Add(1)
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("approvals deadlocked")
	}
	return out
}

func TestEngine_Approve_RaceUnderRowLockCreditsOnce(t *testing.T) {
	s := newLockingStore(storedPending("1"))
	s.lockingReads = true

	out := approveConcurrently(t, s, newGatedOracle("100", 2), 2)

	// the loser waits on the user row, then finds the snapshot applied
	assert.Equal(t, int32(1), out.credited.Load())
	assert.Equal(t, int32(1), out.replayed.Load())
	assert.Zero(t, out.conflicts.Load())
	assert.Zero(t, out.other.Load())
	assert.Equal(t, 1, s.credits)
	assert.Equal(t, "100.00000000", s.committedBalance().StringFixed(8))
	assert.True(t, s.stored.ApprovalApplied())
}

func TestEngine_Approve_RaceWithoutLockingReadsLosesVersionCheck(t *testing.T) {
	s := newLockingStore(storedPending("1"))
	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	s.readBarrier = barrier

	out := approveConcurrently(t, s, newGatedOracle("100", 2), 2)

	// both read version 1 and both increment; the second update loses the
	// version check and its increment is rolled back with it
	assert.Equal(t, int32(1), out.credited.Load())
	assert.Equal(t, int32(1), out.conflicts.Load())
	assert.Zero(t, out.other.Load())
	assert.Equal(t, 1, s.credits)
	assert.Equal(t, "100.00000000", s.committedBalance().StringFixed(8))
	require.NotNil(t, s.stored.USDValue())
	assert.Equal(t, "100.00000000", s.stored.USDValue().StringFixed(8))
}
