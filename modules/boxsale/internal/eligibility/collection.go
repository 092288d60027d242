package eligibility

import (
	"maps"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
)

var _ Source = (*Collection)(nil)

// Collection is a soulbound whitelist credential collection. Credentials can only move between
// a holder and a registered staking contract, and only with the holder's approval.
type Collection struct {
	Address common.Address
	Owner   common.Address
	Name    string

	whitelist   []common.Address
	listed      map[common.Address]bool
	minted      map[common.Address]bool
	balances    map[common.Address]uint64
	approvals   map[common.Address]map[common.Address]bool
	stakers     map[common.Address]bool
	totalSupply uint64
}

func NewCollection(address, owner common.Address, name string) *Collection {
	return &Collection{
		Address:   address,
		Owner:     owner,
		Name:      name,
		listed:    make(map[common.Address]bool),
		minted:    make(map[common.Address]bool),
		balances:  make(map[common.Address]uint64),
		approvals: make(map[common.Address]map[common.Address]bool),
		stakers:   make(map[common.Address]bool),
	}
}

// AddWhitelist appends holders to the whitelist and returns how many were new.
func (c *Collection) AddWhitelist(caller common.Address, holders []common.Address) (int, error) {
	if caller != c.Owner {
		return 0, errors.Wrap(errs.Unauthorized, "only the collection owner can edit the whitelist")
	}
	added := 0
	for _, holder := range holders {
		if c.listed[holder] {
			continue
		}
		c.listed[holder] = true
		c.whitelist = append(c.whitelist, holder)
		added++
	}
	return added, nil
}

// MintToWhitelist mints one credential to every whitelisted holder that never received one.
func (c *Collection) MintToWhitelist(caller common.Address) (uint64, error) {
	if caller != c.Owner {
		return 0, errors.Wrap(errs.Unauthorized, "only the collection owner can mint")
	}
	var minted uint64
	for _, holder := range c.whitelist {
		if c.minted[holder] {
			continue
		}
		c.minted[holder] = true
		c.balances[holder]++
		minted++
	}
	c.totalSupply += minted
	return minted, nil
}

// SetStaking registers a contract that credentials may be transferred to and from.
func (c *Collection) SetStaking(caller, staking common.Address) error {
	if caller != c.Owner {
		return errors.Wrap(errs.Unauthorized, "only the collection owner can register staking contracts")
	}
	c.stakers[staking] = true
	return nil
}

func (c *Collection) SetApprovalForAll(holder, operator common.Address, approved bool) {
	if c.approvals[holder] == nil {
		c.approvals[holder] = make(map[common.Address]bool)
	}
	c.approvals[holder][operator] = approved
}

func (c *Collection) IsApprovedForAll(holder, operator common.Address) bool {
	return c.approvals[holder][operator]
}

func (c *Collection) BalanceOf(holder common.Address) uint64 {
	return c.balances[holder]
}

func (c *Collection) TotalSupply() uint64 {
	return c.totalSupply
}

func (c *Collection) IsEligible(holder common.Address) bool {
	return c.balances[holder] > 0
}

// Transfer moves one credential. Transfers that do not involve a staking contract are rejected.
func (c *Collection) Transfer(operator, from, to common.Address) error {
	if !c.stakers[from] && !c.stakers[to] {
		return errors.Wrap(errs.EligibilityError, "soulbound credential")
	}
	if operator != from && !c.IsApprovedForAll(from, operator) {
		return errors.Wrapf(errs.EligibilityError, "%s is not approved to transfer credentials of %s", operator, from)
	}
	if c.balances[from] == 0 {
		return errors.Wrapf(errs.EligibilityError, "%s holds no credential", from)
	}
	c.balances[from]--
	c.balances[to]++
	return nil
}

func (c *Collection) Consume(holder, spender common.Address) error {
	return errors.WithStack(c.Transfer(spender, holder, spender))
}

func (c *Collection) Release(holder, spender common.Address, kind Kind) error {
	switch kind {
	case OneTime:
		if c.balances[spender] == 0 {
			return errors.Wrapf(errs.ArithmeticInvariant, "%s holds no consumed credential", spender)
		}
		c.balances[spender]--
		c.totalSupply--
		return nil
	case Reusable:
		return errors.WithStack(c.Transfer(spender, spender, holder))
	}
	return errors.Wrapf(errs.InvalidArgument, "unknown credential kind %d", kind)
}

func (c *Collection) Clone() *Collection {
	clone := &Collection{
		Address:     c.Address,
		Owner:       c.Owner,
		Name:        c.Name,
		whitelist:   append([]common.Address(nil), c.whitelist...),
		listed:      maps.Clone(c.listed),
		minted:      maps.Clone(c.minted),
		balances:    maps.Clone(c.balances),
		approvals:   make(map[common.Address]map[common.Address]bool, len(c.approvals)),
		stakers:     maps.Clone(c.stakers),
		totalSupply: c.totalSupply,
	}
	for holder, operators := range c.approvals {
		clone.approvals[holder] = maps.Clone(operators)
	}
	return clone
}
