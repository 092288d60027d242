package payment

import (
	"maps"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/uint128"
)

// Ledger moves value between accounts.
type Ledger interface {
	BalanceOf(currency, account common.Address) uint128.Uint128
	Transfer(currency, from, to common.Address, amount uint128.Uint128) error
}

var _ Ledger = (*Bank)(nil)

// Bank keeps balances of the native coin and of fungible quote tokens.
// The zero address is the native currency.
type Bank struct {
	balances map[common.Address]map[common.Address]uint128.Uint128
}

func NewBank() *Bank {
	return &Bank{balances: make(map[common.Address]map[common.Address]uint128.Uint128)}
}

func (b *Bank) BalanceOf(currency, account common.Address) uint128.Uint128 {
	return b.balances[currency][account]
}

// Mint credits account out of thin air. It is used for deposits into the ledger.
func (b *Bank) Mint(currency, account common.Address, amount uint128.Uint128) error {
	balance, overflow := b.BalanceOf(currency, account).AddOverflow(amount)
	if overflow {
		return errors.Wrapf(errs.OverflowUint128, "balance of %s overflows", account)
	}
	b.set(currency, account, balance)
	return nil
}

func (b *Bank) Transfer(currency, from, to common.Address, amount uint128.Uint128) error {
	if amount.IsZero() || from == to {
		return nil
	}
	balance := b.BalanceOf(currency, from)
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(errs.InsufficientFunds, "%s has %s, needs %s", from, balance, amount)
	}
	credited, overflow := b.BalanceOf(currency, to).AddOverflow(amount)
	if overflow {
		return errors.Wrapf(errs.OverflowUint128, "balance of %s overflows", to)
	}
	b.set(currency, from, balance.Sub(amount))
	b.set(currency, to, credited)
	return nil
}

// Supply returns the sum of all balances of currency.
func (b *Bank) Supply(currency common.Address) uint128.Uint128 {
	total := uint128.Zero
	for _, balance := range b.balances[currency] {
		total = total.Add(balance)
	}
	return total
}

func (b *Bank) Clone() *Bank {
	clone := &Bank{balances: make(map[common.Address]map[common.Address]uint128.Uint128, len(b.balances))}
	for currency, accounts := range b.balances {
		clone.balances[currency] = maps.Clone(accounts)
	}
	return clone
}

func (b *Bank) set(currency, account common.Address, amount uint128.Uint128) {
	if b.balances[currency] == nil {
		b.balances[currency] = make(map[common.Address]uint128.Uint128)
	}
	b.balances[currency][account] = amount
}
