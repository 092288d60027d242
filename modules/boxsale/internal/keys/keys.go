// Package keys is the key credential ledger. A key is redeemable for one catalog item of the
// distribution instance (class) that issued it.
package keys

import (
	"maps"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
)

// Issuer is the part of the key ledger distribution instances and the mystery box act on.
type Issuer interface {
	Mint(minter, to common.Address, class string, count uint64) error
	Burn(operator, holder common.Address, class string, count uint64) error
	BalanceOf(class string, holder common.Address) uint64
	IsApprovedForAll(holder, operator common.Address) bool
}

var _ Issuer = (*Ledger)(nil)

type Ledger struct {
	Owner common.Address

	hardCap     uint64
	totalSupply uint64
	minters     map[common.Address]bool
	balances    map[string]map[common.Address]uint64
	supply      map[string]uint64
	approvals   map[common.Address]map[common.Address]bool
}

func NewLedger(owner common.Address, hardCap uint64) *Ledger {
	return &Ledger{
		Owner:     owner,
		hardCap:   hardCap,
		minters:   make(map[common.Address]bool),
		balances:  make(map[string]map[common.Address]uint64),
		supply:    make(map[string]uint64),
		approvals: make(map[common.Address]map[common.Address]bool),
	}
}

func (l *Ledger) HardCap() uint64 {
	return l.hardCap
}

// SetHardCap limits the number of keys that can ever be minted. Zero means uncapped.
func (l *Ledger) SetHardCap(caller common.Address, hardCap uint64) error {
	if caller != l.Owner {
		return errors.Wrap(errs.Unauthorized, "only the key owner can set the hard cap")
	}
	if hardCap != 0 && hardCap < l.totalSupply {
		return errors.Wrapf(errs.CapacityError, "hard cap %d is below the minted supply %d", hardCap, l.totalSupply)
	}
	l.hardCap = hardCap
	return nil
}

func (l *Ledger) AddMinter(minter common.Address) {
	l.minters[minter] = true
}

func (l *Ledger) IsMinter(addr common.Address) bool {
	return l.minters[addr]
}

func (l *Ledger) Mint(minter, to common.Address, class string, count uint64) error {
	if !l.minters[minter] {
		return errors.Wrapf(errs.Unauthorized, "%s is not a key minter", minter)
	}
	if count == 0 {
		return nil
	}
	if l.hardCap != 0 && l.totalSupply+count > l.hardCap {
		return errors.Wrapf(errs.CapacityError, "minting %d keys exceeds the hard cap %d (supply %d)", count, l.hardCap, l.totalSupply)
	}
	if l.balances[class] == nil {
		l.balances[class] = make(map[common.Address]uint64)
	}
	l.balances[class][to] += count
	l.supply[class] += count
	l.totalSupply += count
	return nil
}

// Burn destroys count keys of holder. The operator must be the holder or approved by it.
func (l *Ledger) Burn(operator, holder common.Address, class string, count uint64) error {
	if operator != holder && !l.IsApprovedForAll(holder, operator) {
		return errors.Wrapf(errs.Unauthorized, "%s is not approved to burn keys of %s", operator, holder)
	}
	if count == 0 {
		return nil
	}
	balance := l.balances[class][holder]
	if balance < count {
		return errors.Wrapf(errs.InsufficientFunds, "%s holds %d %q keys, needs %d", holder, balance, class, count)
	}
	l.balances[class][holder] = balance - count
	l.supply[class] -= count
	l.totalSupply -= count
	return nil
}

func (l *Ledger) Transfer(operator, from, to common.Address, class string, count uint64) error {
	if operator != from && !l.IsApprovedForAll(from, operator) {
		return errors.Wrapf(errs.Unauthorized, "%s is not approved to transfer keys of %s", operator, from)
	}
	if count == 0 {
		return nil
	}
	balance := l.balances[class][from]
	if balance < count {
		return errors.Wrapf(errs.InsufficientFunds, "%s holds %d %q keys, needs %d", from, balance, class, count)
	}
	l.balances[class][from] = balance - count
	l.balances[class][to] += count
	return nil
}

func (l *Ledger) SetApprovalForAll(holder, operator common.Address, approved bool) {
	if l.approvals[holder] == nil {
		l.approvals[holder] = make(map[common.Address]bool)
	}
	l.approvals[holder][operator] = approved
}

func (l *Ledger) IsApprovedForAll(holder, operator common.Address) bool {
	return l.approvals[holder][operator]
}

func (l *Ledger) BalanceOf(class string, holder common.Address) uint64 {
	return l.balances[class][holder]
}

// TotalSupply returns the live keys of class, or of every class when class is empty.
func (l *Ledger) TotalSupply(class string) uint64 {
	if class == "" {
		return l.totalSupply
	}
	return l.supply[class]
}

func (l *Ledger) Clone() *Ledger {
	clone := &Ledger{
		Owner:       l.Owner,
		hardCap:     l.hardCap,
		totalSupply: l.totalSupply,
		minters:     maps.Clone(l.minters),
		balances:    make(map[string]map[common.Address]uint64, len(l.balances)),
		supply:      maps.Clone(l.supply),
		approvals:   make(map[common.Address]map[common.Address]bool, len(l.approvals)),
	}
	for class, holders := range l.balances {
		clone.balances[class] = maps.Clone(holders)
	}
	for holder, operators := range l.approvals {
		clone.approvals[holder] = maps.Clone(operators)
	}
	return clone
}
