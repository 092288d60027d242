package subscription

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/uint128"
)

// Win is what a participant gets out of a sale.
type Win struct {
	Booking
	Allocated bool
	Refund    uint128.Uint128
}

// GetMyWin returns the allocation of addr. Before allocation only the deposit is known.
func (s *Sale) GetMyWin(addr common.Address) (Win, error) {
	booking, ok := s.booking(addr)
	if !ok {
		return Win{}, errors.Wrapf(errs.NotFound, "%s has no booking in %s", addr, s.Config.Name)
	}
	win := Win{Booking: *booking, Allocated: s.allocated, Refund: uint128.Zero}
	if s.allocated {
		refund, err := booking.Refund()
		if err != nil {
			return Win{}, err
		}
		win.Refund = refund
	}
	return win, nil
}

// Booking returns the booking at a 1-based index.
func (s *Sale) Booking(index uint64) (Booking, error) {
	if index == 0 || index > uint64(len(s.bookings)) {
		return Booking{}, errors.Wrapf(errs.NotFound, "booking %d in %s", index, s.Config.Name)
	}
	return *s.bookings[index-1], nil
}

// DepositIndex returns the booking index of addr, 0 when it never subscribed.
func (s *Sale) DepositIndex(addr common.Address) uint64 {
	return s.byAddress[addr]
}

func (s *Sale) BookingCount() uint64 {
	return uint64(len(s.bookings))
}

func (s *Sale) TotalFund() uint128.Uint128 {
	return s.totals.TotalFund
}

func (s *Sale) TicketCount() uint64 {
	return s.totals.TotalTickets
}

func (s *Sale) RateAllocable() uint64 {
	if s.Config.Strategy != Rate {
		return 0
	}
	return s.rateParams().RateAllocable()
}

func (s *Sale) EvenAllocable() uint64 {
	if s.Config.Strategy != Rate {
		return s.Config.PoolSize
	}
	return s.rateParams().EvenAllocable()
}

// GetLeastFund returns the smallest stake that currently guarantees one proportional item,
// never less than the rate price. Ticket sales return the ticket price.
func (s *Sale) GetLeastFund() (uint128.Uint128, error) {
	if s.Config.Strategy != Rate {
		return s.Config.TicketPrice, nil
	}
	rateAllocable := s.RateAllocable()
	if rateAllocable == 0 {
		return s.Config.RatePrice, nil
	}
	q, r := s.totals.TotalFund.QuoRem64(rateAllocable)
	if r != 0 {
		q = q.Add64(1)
	}
	if q.Cmp(s.Config.RatePrice) < 0 {
		return s.Config.RatePrice, nil
	}
	return q, nil
}

// VerifyTotals checks the incrementally maintained totals against the bookings.
func (s *Sale) VerifyTotals() error {
	fund := uint128.Zero
	var tickets, distributed uint64
	for _, b := range s.bookings {
		var overflow bool
		fund, overflow = fund.AddOverflow(b.Paid)
		if overflow {
			return errors.Wrap(errs.ArithmeticInvariant, "sum of stakes overflows")
		}
		tickets += b.Tickets
		distributed += b.TotalAllocated
	}
	switch {
	case !fund.Equals(s.totals.TotalFund):
		return errors.Wrapf(errs.ArithmeticInvariant, "%s total fund is %s, bookings sum to %s", s.Config.Name, s.totals.TotalFund, fund)
	case tickets != s.totals.TotalTickets:
		return errors.Wrapf(errs.ArithmeticInvariant, "%s total tickets is %d, bookings sum to %d", s.Config.Name, s.totals.TotalTickets, tickets)
	case distributed != s.totals.Distributed:
		return errors.Wrapf(errs.ArithmeticInvariant, "%s distributed is %d, bookings sum to %d", s.Config.Name, s.totals.Distributed, distributed)
	case s.totals.Distributed+s.totals.Available != s.Config.PoolSize:
		return errors.Wrapf(errs.ArithmeticInvariant, "%s distributed and available don't add up to the pool", s.Config.Name)
	}
	return nil
}
