package deposit

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/ledgerline/depositd/internal/domain/deposit/valueobjects"
	"github.com/ledgerline/depositd/internal/shared/errors"
	"github.com/ledgerline/depositd/internal/shared/money"
)

// Deposit is a user's request to credit funds, stored as a deposit-kind row of
// the transactions table. Once an approval snapshot has been applied, amount
// and token are frozen and the snapshot fields never change again.
type Deposit struct {
	id             uint
	userID         uint
	tokenSymbol    vo.TokenSymbol
	amount         decimal.Decimal
	depositAddress *string
	status         vo.Status

	tokenPriceAtApproval *decimal.Decimal
	usdValue             *decimal.Decimal
	approvedAt           *time.Time
	approvalApplied      bool

	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewDeposit(userID uint, symbol vo.TokenSymbol, amount decimal.Decimal, depositAddress *string, status vo.Status, now time.Time) (*Deposit, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user_id is required")
	}
	if symbol == "" {
		return nil, errors.NewValidationError("token_symbol is required")
	}
	if !amount.IsPositive() {
		return nil, errors.NewValidationError("amount must be positive")
	}
	if status == "" {
		status = vo.StatusPending
	}
	if status.IsApproved() {
		return nil, errors.NewValidationError("a deposit cannot be created as approved",
			"create it pending and approve it with an update")
	}

	return &Deposit{
		userID:         userID,
		tokenSymbol:    symbol,
		amount:         money.Round(amount),
		depositAddress: depositAddress,
		status:         status,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructParams carries every persisted column of a deposit.
type ReconstructParams struct {
	ID                   uint
	UserID               uint
	TokenSymbol          vo.TokenSymbol
	Amount               decimal.Decimal
	DepositAddress       *string
	Status               vo.Status
	TokenPriceAtApproval *decimal.Decimal
	USDValue             *decimal.Decimal
	ApprovedAt           *time.Time
	ApprovalApplied      bool
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ReconstructDeposit rebuilds a Deposit from persistence.
func ReconstructDeposit(p ReconstructParams) *Deposit {
	return &Deposit{
		id:                   p.ID,
		userID:               p.UserID,
		tokenSymbol:          p.TokenSymbol,
		amount:               p.Amount,
		depositAddress:       p.DepositAddress,
		status:               p.Status,
		tokenPriceAtApproval: p.TokenPriceAtApproval,
		usdValue:             p.USDValue,
		approvedAt:           p.ApprovedAt,
		approvalApplied:      p.ApprovalApplied,
		version:              p.Version,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}
}

// Changes is a partial edit. Nil fields are left untouched; an empty
// DepositAddress clears it.
type Changes struct {
	TokenSymbol    *vo.TokenSymbol
	Amount         *decimal.Decimal
	DepositAddress *string
	Status         *vo.Status
}

// IsFrozen reports whether amount and token may no longer change.
func (d *Deposit) IsFrozen() bool {
	return d.status.IsApproved() || d.approvalApplied
}

// ApplyChanges edits the deposit in place. Re-sending the current amount or
// token of a frozen deposit is accepted.
func (d *Deposit) ApplyChanges(ch Changes, now time.Time) error {
	if d.IsFrozen() {
		if ch.Amount != nil && !money.Round(*ch.Amount).Equal(d.amount) {
			return errors.NewImmutableFieldError("amount",
				fmt.Sprintf("deposit %d is approved with amount %s", d.id, money.Format(d.amount)))
		}
		if ch.TokenSymbol != nil && *ch.TokenSymbol != d.tokenSymbol {
			return errors.NewImmutableFieldError("token_symbol",
				fmt.Sprintf("deposit %d is approved with token %s", d.id, d.tokenSymbol))
		}
	}

	if ch.Amount != nil {
		if !ch.Amount.IsPositive() {
			return errors.NewValidationError("amount must be positive")
		}
		d.amount = money.Round(*ch.Amount)
	}
	if ch.TokenSymbol != nil {
		if *ch.TokenSymbol == "" {
			return errors.NewValidationError("token_symbol must not be empty")
		}
		d.tokenSymbol = *ch.TokenSymbol
	}
	if ch.DepositAddress != nil {
		if *ch.DepositAddress == "" {
			d.depositAddress = nil
		} else {
			addr := *ch.DepositAddress
			d.depositAddress = &addr
		}
	}
	if ch.Status != nil {
		d.status = *ch.Status
	}

	d.updatedAt = now
	return nil
}

// IsApprovingEdge reports whether moving from prev to the current status must
// run the approval transaction.
func (d *Deposit) IsApprovingEdge(prev vo.Status) bool {
	return !prev.IsApproved() && d.status.IsApproved()
}

// RecordApproval writes the approval snapshot. It may only happen once.
func (d *Deposit) RecordApproval(price, usdValue decimal.Decimal, at time.Time) error {
	if d.approvalApplied {
		return fmt.Errorf("deposit %d already has an approval snapshot", d.id)
	}
	if !d.status.IsApproved() {
		return fmt.Errorf("deposit %d is %s, not approved", d.id, d.status)
	}

	p := money.Round(price)
	usd := money.Round(usdValue)
	d.tokenPriceAtApproval = &p
	d.usdValue = &usd
	d.approvedAt = &at
	d.approvalApplied = true
	d.updatedAt = at
	return nil
}

// AdoptApproval takes over the snapshot already stored for this deposit, so a
// replayed approval persists the stored values rather than new ones. The
// working copy is rebased on the stored version.
func (d *Deposit) AdoptApproval(stored *Deposit) error {
	if !stored.approvalApplied {
		return fmt.Errorf("deposit %d has no approval snapshot to adopt", stored.id)
	}
	if !d.amount.Equal(stored.amount) {
		return errors.NewImmutableFieldError("amount",
			fmt.Sprintf("deposit %d was approved with amount %s", stored.id, money.Format(stored.amount)))
	}
	if d.tokenSymbol != stored.tokenSymbol {
		return errors.NewImmutableFieldError("token_symbol",
			fmt.Sprintf("deposit %d was approved with token %s", stored.id, stored.tokenSymbol))
	}

	d.tokenPriceAtApproval = stored.tokenPriceAtApproval
	d.usdValue = stored.usdValue
	d.approvedAt = stored.approvedAt
	d.approvalApplied = true
	d.version = stored.version
	return nil
}

// Clone returns an independent copy.
func (d *Deposit) Clone() *Deposit {
	c := *d
	if d.depositAddress != nil {
		addr := *d.depositAddress
		c.depositAddress = &addr
	}
	if d.tokenPriceAtApproval != nil {
		p := *d.tokenPriceAtApproval
		c.tokenPriceAtApproval = &p
	}
	if d.usdValue != nil {
		u := *d.usdValue
		c.usdValue = &u
	}
	if d.approvedAt != nil {
		at := *d.approvedAt
		c.approvedAt = &at
	}
	return &c
}

func (d *Deposit) ID() uint {
	return d.id
}

// SetID is called by the repository after insert.
func (d *Deposit) SetID(id uint) {
	d.id = id
}

func (d *Deposit) UserID() uint {
	return d.userID
}

func (d *Deposit) TokenSymbol() vo.TokenSymbol {
	return d.tokenSymbol
}

func (d *Deposit) Amount() decimal.Decimal {
	return d.amount
}

func (d *Deposit) DepositAddress() *string {
	return d.depositAddress
}

func (d *Deposit) Status() vo.Status {
	return d.status
}

func (d *Deposit) TokenPriceAtApproval() *decimal.Decimal {
	return d.tokenPriceAtApproval
}

func (d *Deposit) USDValue() *decimal.Decimal {
	return d.usdValue
}

func (d *Deposit) ApprovedAt() *time.Time {
	return d.approvedAt
}

func (d *Deposit) ApprovalApplied() bool {
	return d.approvalApplied
}

// IsDeposit and IsWithdraw are the fixed kind flags of this row category.
func (d *Deposit) IsDeposit() bool {
	return true
}

func (d *Deposit) IsWithdraw() bool {
	return false
}

func (d *Deposit) Version() int {
	return d.version
}

// MarkPersisted records the version written by a successful update.
func (d *Deposit) MarkPersisted(version int) {
	d.version = version
}

func (d *Deposit) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Deposit) UpdatedAt() time.Time {
	return d.updatedAt
}
