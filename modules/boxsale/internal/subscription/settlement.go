package subscription

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gaze-network/uint128"
)

// Settlement is the outcome of a claim.
type Settlement struct {
	Index       uint64
	Refund      uint128.Uint128
	Cost        uint128.Uint128
	PlatformFee uint128.Uint128
	Keys        uint64
}

// Claim settles the booking of addr: it refunds the unspent payment, pays the cost out to the
// treasury and payment recipients, releases the consumed credentials and mints one key per
// allocated item. Allocation runs first if nobody triggered it yet.
func (s *Sale) Claim(env Env, addr common.Address) (Settlement, error) {
	if now := env.Block().Unix(); now < s.Config.ClaimStart {
		return Settlement{}, errors.Wrapf(errs.PhaseError, "%s claims open at %d", s.Config.Name, s.Config.ClaimStart)
	}
	booking, ok := s.booking(addr)
	if !ok {
		return Settlement{}, errors.Wrapf(errs.NotFound, "%s has no booking in %s", addr, s.Config.Name)
	}
	if booking.Claimed {
		return Settlement{}, errors.Wrapf(errs.DoubleClaim, "%s already claimed booking %d", addr, booking.Index)
	}
	if !s.allocated {
		if _, err := s.Allocate(env); err != nil {
			return Settlement{}, err
		}
	}

	refund, err := booking.Refund()
	if err != nil {
		return Settlement{}, err
	}
	fee, err := decimals.Permille(booking.Cost, s.Config.PlatformFeeRate)
	if err != nil {
		return Settlement{}, errors.Wrap(err, "can't compute platform fee")
	}

	payments := env.Payments()
	if err := payments.Transfer(s.Config.Quote, s.Escrow, addr, refund); err != nil {
		return Settlement{}, errors.Wrapf(err, "can't refund %s", addr)
	}
	if err := payments.Transfer(s.Config.Quote, s.Escrow, s.Config.TreasuryRecipient, fee); err != nil {
		return Settlement{}, errors.Wrap(err, "can't pay the platform fee")
	}
	if err := payments.Transfer(s.Config.Quote, s.Escrow, s.Config.PaymentRecipient, booking.Cost.Sub(fee)); err != nil {
		return Settlement{}, errors.Wrap(err, "can't pay the payment recipient")
	}
	if err := s.gate.Release(env.Registry(), addr, s.Escrow); err != nil {
		return Settlement{}, errors.Wrapf(err, "can't release credentials of %s", addr)
	}
	if err := env.Keys().Mint(s.Escrow, addr, s.Config.Name, booking.TotalAllocated); err != nil {
		return Settlement{}, errors.Wrapf(err, "can't issue %d keys", booking.TotalAllocated)
	}
	booking.Claimed = true

	settlement := Settlement{
		Index:       booking.Index,
		Refund:      refund,
		Cost:        booking.Cost,
		PlatformFee: fee,
		Keys:        booking.TotalAllocated,
	}
	s.emit(env, entity.EventClaimed, addr, map[string]string{
		"index":  strconv.FormatUint(booking.Index, 10),
		"refund": refund.String(),
		"cost":   booking.Cost.String(),
		"fee":    fee.String(),
		"keys":   strconv.FormatUint(booking.TotalAllocated, 10),
	})
	return settlement, nil
}
