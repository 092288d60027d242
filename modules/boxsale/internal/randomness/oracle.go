package randomness

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

var _ Oracle = (*LocalOracle)(nil)

type request struct {
	count uint64
	seed  *uint256.Int
}

// LocalOracle is an in-ledger randomness contract. Requests are recorded per height and
// resolved later by an external callback.
type LocalOracle struct {
	address  common.Address
	fee      uint128.Uint128
	requests map[int64]*request
}

func NewLocalOracle(address common.Address, fee uint128.Uint128) *LocalOracle {
	return &LocalOracle{
		address:  address,
		fee:      fee,
		requests: make(map[int64]*request),
	}
}

func (o *LocalOracle) Address() common.Address {
	return o.address
}

func (o *LocalOracle) Fee() uint128.Uint128 {
	return o.fee
}

func (o *LocalOracle) Request(height int64) error {
	r, ok := o.requests[height]
	if !ok {
		r = &request{}
		o.requests[height] = r
	}
	if r.seed != nil {
		return errors.Wrapf(errs.PhaseError, "randomness for height %d is already resolved", height)
	}
	r.count++
	return nil
}

// Resolve delivers the seed for a requested height.
func (o *LocalOracle) Resolve(height int64, seed *uint256.Int) error {
	r, ok := o.requests[height]
	if !ok {
		return errors.Wrapf(errs.NotFound, "no randomness request at height %d", height)
	}
	if r.seed != nil {
		return errors.Wrapf(errs.PhaseError, "randomness for height %d is already resolved", height)
	}
	r.seed = seed.Clone()
	return nil
}

func (o *LocalOracle) Seed(height int64) (*uint256.Int, bool) {
	r, ok := o.requests[height]
	if !ok || r.seed == nil {
		return nil, false
	}
	return r.seed.Clone(), true
}

// Pending returns the unresolved request heights in ascending order.
func (o *LocalOracle) Pending() []int64 {
	heights := lo.Keys(lo.PickBy(o.requests, func(_ int64, r *request) bool { return r.seed == nil }))
	slices.Sort(heights)
	return heights
}

func (o *LocalOracle) Clone() *LocalOracle {
	clone := NewLocalOracle(o.address, o.fee)
	for height, r := range o.requests {
		c := &request{count: r.count}
		if r.seed != nil {
			c.seed = r.seed.Clone()
		}
		clone.requests[height] = c
	}
	return clone
}
