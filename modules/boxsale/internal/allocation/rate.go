package allocation

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

type rateSlot struct {
	award Award
	paid  uint128.Uint128
}

func (s *rateSlot) leftover() uint128.Uint128 {
	return s.paid.Sub(s.award.Cost)
}

// buy adds one unit at price if the booking can still afford it.
func (s *rateSlot) buy(price uint128.Uint128) bool {
	if s.leftover().Cmp(price) < 0 {
		return false
	}
	s.award.Cost = s.award.Cost.Add(price)
	return true
}

// Rate allocates the pool proportionally to the paid amounts.
//
// Each booking first gets floor(paid * rateAllocable / totalFund) units, capped at what it can
// pay for at RatePrice. The units left over by flooring are handed out in one pass over the
// seed permutation of the bookings, at most one unit each, to bookings that can afford another
// unit. Whatever remains joins the even portion, which is handed out one unit per booking per
// round, in permutation order, at EvenPrice until the portion or the leftover funds run out.
// A zero EvenPrice disables the even portion.
func Rate(entries []Entry, params RateParams, seed *uint256.Int) (Result, error) {
	if err := params.validate(); err != nil {
		return Result{}, err
	}
	entries = lo.Filter(entries, func(e Entry, _ int) bool { return !e.Paid.IsZero() })

	totalFund := uint128.Zero
	for _, entry := range entries {
		var overflow bool
		totalFund, overflow = totalFund.AddOverflow(entry.Paid)
		if overflow {
			return Result{}, errors.Wrap(errs.OverflowUint128, "total fund overflows")
		}
	}

	slots := make([]*rateSlot, len(entries))
	rateAllocable := params.RateAllocable()
	remaining := rateAllocable
	for i, entry := range entries {
		slot := &rateSlot{award: Award{Index: entry.Index}, paid: entry.Paid}
		share, err := decimals.MulDiv(entry.Paid, uint128.From64(rateAllocable), totalFund)
		if err != nil {
			return Result{}, errors.Wrapf(err, "proportional share of booking %d", entry.Index)
		}
		affordable, _ := entry.Paid.QuoRem(params.RatePrice)
		if affordable.Cmp(share) < 0 {
			share = affordable
		}
		units := share.Big().Uint64()
		slot.award.Rate = units
		slot.award.Cost = params.RatePrice.Mul64(units)
		remaining -= units
		slots[i] = slot
	}

	perm := randomness.Permutation(seed, len(slots))
	for _, i := range perm {
		if remaining == 0 {
			break
		}
		if slots[i].buy(params.RatePrice) {
			slots[i].award.Rate++
			remaining--
		}
	}

	evenPool := params.EvenAllocable() + remaining
	if params.EvenPrice.IsZero() {
		evenPool = 0
	}
	for evenPool > 0 {
		progressed := false
		for _, i := range perm {
			if evenPool == 0 {
				break
			}
			if slots[i].buy(params.EvenPrice) {
				slots[i].award.Even++
				evenPool--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	awards := lo.Map(slots, func(s *rateSlot, _ int) Award {
		s.award.Total = s.award.Rate + s.award.Even
		return s.award
	})
	return Result{Awards: awards, Distributed: sumOf(awards)}, nil
}
