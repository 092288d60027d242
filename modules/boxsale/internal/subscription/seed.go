package subscription

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/allocation"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
)

// RequestSeed pays the oracle for a random seed bound to the current height. It can be called
// once, after the subscription window. Only the oracle fee is taken from the offered amount.
func (s *Sale) RequestSeed(env Env, caller common.Address, offered uint128.Uint128) (int64, error) {
	block := env.Block()
	if s.binding != nil {
		return 0, errors.Wrapf(errs.PhaseError, "%s randomness was already requested at height %d", s.Config.Name, s.binding.RequestHeight)
	}
	if at := s.Config.SeedAvailableAt(); block.Unix() < at {
		return 0, errors.Wrapf(errs.PhaseError, "%s randomness can't be requested before %d", s.Config.Name, at)
	}
	oracle := env.Oracle()
	fee := oracle.Fee()
	if offered.Cmp(fee) < 0 {
		return 0, errors.Wrapf(errs.InsufficientFunds, "oracle fee is %s, got %s", fee, offered)
	}
	if err := env.Payments().Transfer(common.NativeCurrency, caller, oracle.Address(), fee); err != nil {
		return 0, errors.Wrap(err, "can't pay the oracle fee")
	}
	if err := oracle.Request(block.Height); err != nil {
		return 0, errors.Wrap(err, "randomness request failed")
	}
	s.binding = randomness.NewBinding(block.Height)
	s.emit(env, entity.EventSeedRequested, caller, map[string]string{
		"height": strconv.FormatInt(block.Height, 10),
		"fee":    fee.String(),
	})
	return block.Height, nil
}

// SeedRequestHeight returns the height the seed is bound to.
func (s *Sale) SeedRequestHeight() (int64, bool) {
	if s.binding == nil {
		return 0, false
	}
	return s.binding.RequestHeight, true
}

// IsSeedReady reports whether the oracle resolved the requested seed. It does not modify the sale.
func (s *Sale) IsSeedReady(env Env) bool {
	if s.binding == nil {
		return false
	}
	if s.binding.Status == randomness.Ready {
		return true
	}
	_, ok := env.Oracle().Seed(s.binding.RequestHeight)
	return ok
}

// Allocate runs the allocation once the seed is ready and applies it to every booking.
func (s *Sale) Allocate(env Env) (allocation.Result, error) {
	if s.allocated {
		return allocation.Result{}, errors.Wrapf(errs.PhaseError, "%s is already allocated", s.Config.Name)
	}
	if s.binding == nil {
		return allocation.Result{}, errors.Wrapf(errs.PhaseError, "%s randomness was not requested", s.Config.Name)
	}
	if !s.binding.Poll(env.Oracle()) {
		return allocation.Result{}, errors.Wrapf(errs.PhaseError, "%s randomness is not ready", s.Config.Name)
	}
	seed, _ := s.binding.Seed()

	result, err := s.compute(seed)
	if err != nil {
		return allocation.Result{}, errors.Wrapf(err, "can't allocate %s", s.Config.Name)
	}
	if result.Distributed > s.Config.PoolSize {
		return allocation.Result{}, errors.Wrapf(errs.ArithmeticInvariant, "%s allocated %d of %d items", s.Config.Name, result.Distributed, s.Config.PoolSize)
	}
	for _, award := range result.Awards {
		booking := s.bookings[award.Index-1]
		if award.Cost.Cmp(booking.Paid) > 0 {
			return allocation.Result{}, errors.Wrapf(errs.ArithmeticInvariant, "booking %d costs %s but paid %s", award.Index, award.Cost, booking.Paid)
		}
		booking.RateAllocated = award.Rate
		booking.EvenAllocated = award.Even
		booking.WinningTickets = award.WinningTickets
		booking.TotalAllocated = award.Total
		booking.Cost = award.Cost
	}
	s.totals.Distributed = result.Distributed
	s.totals.Available = s.Config.PoolSize - result.Distributed
	s.allocated = true

	s.emit(env, entity.EventAllocated, s.Escrow, map[string]string{
		"distributed": strconv.FormatUint(result.Distributed, 10),
		"bookings":    strconv.Itoa(len(result.Awards)),
	})
	return result, nil
}

// Preview computes the allocation a seed would produce without applying it.
func (s *Sale) Preview(seed *uint256.Int) (allocation.Result, error) {
	return s.compute(seed)
}

func (s *Sale) compute(seed *uint256.Int) (allocation.Result, error) {
	entries := make([]allocation.Entry, len(s.bookings))
	for i, b := range s.bookings {
		entries[i] = allocation.Entry{Index: b.Index, Paid: b.Paid, Tickets: b.Tickets}
	}
	if s.Config.Strategy == Even {
		return allocation.Even(entries, s.evenParams(), seed)
	}
	return allocation.Rate(entries, s.rateParams(), seed)
}

func (s *Sale) rateParams() allocation.RateParams {
	return allocation.RateParams{
		PoolSize:  s.Config.PoolSize,
		ShareRate: s.Config.ShareRate,
		RatePrice: s.Config.RatePrice,
		EvenPrice: s.Config.EvenPrice,
	}
}

func (s *Sale) evenParams() allocation.EvenParams {
	return allocation.EvenParams{
		PoolSize:    s.Config.PoolSize,
		TicketPrice: s.Config.TicketPrice,
		MaxTicket:   s.Config.MaxTicket,
		PerTicket:   s.Config.PerTicket,
	}
}
