package subscription

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/uint128"
)

// SetWhitelist replaces the eligibility sources. Only the owner can do it, and only before launch.
func (s *Sale) SetWhitelist(env Env, caller common.Address, sources []eligibility.SourceRef, mode eligibility.Mode) error {
	if caller != s.Config.Owner {
		return errors.Wrapf(errs.Unauthorized, "%s is not the owner of %s", caller, s.Config.Name)
	}
	if now := env.Block().Unix(); now >= s.Config.Launch {
		return errors.Wrapf(errs.PhaseError, "%s already launched, whitelist is frozen", s.Config.Name)
	}
	for _, ref := range sources {
		if _, ok := env.Registry().Source(ref.Address); !ok {
			return errors.Wrapf(errs.NotFound, "whitelist source %s", ref.Address)
		}
	}
	s.gate.SetSources(sources, mode)
	s.Config.Whitelist = append([]eligibility.SourceRef(nil), sources...)
	s.Config.Mode = mode
	s.emit(env, entity.EventWhitelistSet, caller, map[string]string{
		"sources": strconv.Itoa(len(sources)),
		"mode":    mode.String(),
	})
	return nil
}

func (s *Sale) checkSubscriptionWindow(env Env) error {
	now := env.Block().Unix()
	if now < s.Config.Launch {
		return errors.Wrapf(errs.PhaseError, "%s is not launched yet", s.Config.Name)
	}
	if s.Config.Close != 0 && now >= s.Config.Close {
		return errors.Wrapf(errs.PhaseError, "%s subscription is closed", s.Config.Name)
	}
	if s.binding != nil {
		return errors.Wrapf(errs.PhaseError, "%s randomness was already requested", s.Config.Name)
	}
	return nil
}

// book returns the booking of addr, creating it and consuming the holder's credentials on first use.
func (s *Sale) book(env Env, addr common.Address) (*Booking, error) {
	if booking, ok := s.booking(addr); ok {
		return booking, nil
	}
	if _, err := s.gate.Consume(env.Registry(), addr, s.Escrow); err != nil {
		return nil, errors.WithStack(err)
	}
	booking := &Booking{Index: uint64(len(s.bookings) + 1), Address: addr, Paid: uint128.Zero, Cost: uint128.Zero}
	s.bookings = append(s.bookings, booking)
	s.byAddress[addr] = booking.Index
	return booking, nil
}

func (s *Sale) canPay(env Env, addr common.Address, value uint128.Uint128) error {
	if balance := env.Payments().BalanceOf(s.Config.Quote, addr); balance.Cmp(value) < 0 {
		return errors.Wrapf(errs.InsufficientFunds, "%s has %s, needs %s", addr, balance, value)
	}
	return nil
}

func (s *Sale) deposit(env Env, booking *Booking, value uint128.Uint128) error {
	paid, overflow := booking.Paid.AddOverflow(value)
	if overflow {
		return errors.Wrap(errs.OverflowUint128, "stake overflows")
	}
	totalFund, overflow := s.totals.TotalFund.AddOverflow(value)
	if overflow {
		return errors.Wrap(errs.OverflowUint128, "total fund overflows")
	}
	if err := env.Payments().Transfer(s.Config.Quote, booking.Address, s.Escrow, value); err != nil {
		return errors.Wrapf(err, "can't collect payment from %s", booking.Address)
	}
	booking.Paid = paid
	s.totals.TotalFund = totalFund
	return nil
}

// Stake deposits value for a proportional allocation.
func (s *Sale) Stake(env Env, addr common.Address, value uint128.Uint128) (*Booking, error) {
	if s.Config.Strategy != Rate {
		return nil, errors.Wrapf(errs.InvalidArgument, "%s sells tickets, not stakes", s.Config.Name)
	}
	if err := s.checkSubscriptionWindow(env); err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "stake must be positive")
	}
	if err := s.canPay(env, addr, value); err != nil {
		return nil, err
	}
	booking, err := s.book(env, addr)
	if err != nil {
		return nil, err
	}
	if err := s.deposit(env, booking, value); err != nil {
		return nil, err
	}
	s.emit(env, entity.EventStaked, addr, map[string]string{
		"index":  strconv.FormatUint(booking.Index, 10),
		"amount": value.String(),
		"paid":   booking.Paid.String(),
	})
	return booking, nil
}

// BuyTicket buys count tickets. The payment must be exactly count * TicketPrice.
func (s *Sale) BuyTicket(env Env, addr common.Address, count uint64, value uint128.Uint128) (*Booking, error) {
	if s.Config.Strategy != Even {
		return nil, errors.Wrapf(errs.InvalidArgument, "%s takes stakes, not tickets", s.Config.Name)
	}
	if err := s.checkSubscriptionWindow(env); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Wrap(errs.CapacityError, "must buy at least one ticket")
	}
	var held uint64
	if booking, ok := s.booking(addr); ok {
		held = booking.Tickets
	}
	if s.Config.MaxTicket != 0 && held+count > s.Config.MaxTicket {
		return nil, errors.Wrapf(errs.CapacityError, "%s would hold %d tickets, max %d", addr, held+count, s.Config.MaxTicket)
	}
	price, overflow := s.Config.TicketPrice.MulOverflow(uint128.From64(count))
	if overflow {
		return nil, errors.Wrap(errs.OverflowUint128, "ticket payment overflows")
	}
	if !value.Equals(price) {
		return nil, errors.Wrapf(errs.InsufficientFunds, "%d tickets cost %s, got %s", count, price, value)
	}
	if err := s.canPay(env, addr, value); err != nil {
		return nil, err
	}

	booking, err := s.book(env, addr)
	if err != nil {
		return nil, err
	}
	if err := s.deposit(env, booking, value); err != nil {
		return nil, err
	}
	booking.Tickets += count
	s.totals.TotalTickets += count
	s.emit(env, entity.EventTicketsBought, addr, map[string]string{
		"index":   strconv.FormatUint(booking.Index, 10),
		"count":   strconv.FormatUint(count, 10),
		"tickets": strconv.FormatUint(booking.Tickets, 10),
		"amount":  value.String(),
	})
	return booking, nil
}

// Unstake withdraws amount before randomness is requested. Ticket bookings withdraw whole tickets.
func (s *Sale) Unstake(env Env, addr common.Address, amount uint128.Uint128) (*Booking, error) {
	if s.allocated || s.binding != nil {
		return nil, errors.Wrapf(errs.PhaseError, "%s can't withdraw after randomness was requested", s.Config.Name)
	}
	booking, ok := s.booking(addr)
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "%s has no booking in %s", addr, s.Config.Name)
	}
	if amount.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}
	if amount.Cmp(booking.Paid) > 0 {
		err := errors.Wrapf(errs.CapacityError, "withdrawing %s exceeds the stake %s", amount, booking.Paid)
		return nil, errors.Mark(err, errs.InsufficientFunds)
	}

	var tickets uint64
	if s.Config.Strategy == Even {
		q, r := amount.QuoRem(s.Config.TicketPrice)
		if !r.IsZero() {
			return nil, errors.Wrapf(errs.InvalidArgument, "withdrawal must be a multiple of the ticket price %s", s.Config.TicketPrice)
		}
		tickets = q.Big().Uint64()
	}

	if err := env.Payments().Transfer(s.Config.Quote, s.Escrow, addr, amount); err != nil {
		return nil, errors.Wrapf(err, "can't refund %s", addr)
	}
	booking.Paid = booking.Paid.Sub(amount)
	booking.Tickets -= tickets
	s.totals.TotalFund = s.totals.TotalFund.Sub(amount)
	s.totals.TotalTickets -= tickets
	s.emit(env, entity.EventUnstaked, addr, map[string]string{
		"index":  strconv.FormatUint(booking.Index, 10),
		"amount": amount.String(),
		"paid":   booking.Paid.String(),
	})
	return booking, nil
}
