// Package allocation computes how a fixed pool of items is split between bookings.
// Every function is pure: the same bookings and seed always produce the same awards.
package allocation

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/uint128"
)

// Entry is the snapshot of one booking taken when allocation runs.
type Entry struct {
	Index   uint64
	Paid    uint128.Uint128
	Tickets uint64
}

// Award is the allocation result of one booking.
type Award struct {
	Index          uint64
	Rate           uint64
	Even           uint64
	WinningTickets uint64
	Total          uint64
	Cost           uint128.Uint128
}

type Result struct {
	Awards      []Award
	Distributed uint64
}

// Award returns the award of a booking index.
func (r Result) Award(index uint64) (Award, bool) {
	for _, award := range r.Awards {
		if award.Index == index {
			return award, true
		}
	}
	return Award{}, false
}

type RateParams struct {
	PoolSize  uint64
	ShareRate uint64 // percent of the pool allocated proportionally
	RatePrice uint128.Uint128
	EvenPrice uint128.Uint128
}

// RateAllocable returns the proportional portion of the pool.
func (p RateParams) RateAllocable() uint64 {
	return p.PoolSize * min(p.ShareRate, 100) / 100
}

// EvenAllocable returns the part of the pool handed out in equal rounds.
func (p RateParams) EvenAllocable() uint64 {
	return p.PoolSize - p.RateAllocable()
}

type EvenParams struct {
	PoolSize    uint64
	TicketPrice uint128.Uint128
	MaxTicket   uint64
	PerTicket   uint64
}

func (p RateParams) validate() error {
	if p.RatePrice.IsZero() {
		return errors.Wrap(errs.InvalidArgument, "rate price must be positive")
	}
	return nil
}

func (p EvenParams) validate() error {
	if p.PerTicket == 0 {
		return errors.Wrap(errs.InvalidArgument, "items per ticket must be positive")
	}
	return nil
}

func sumOf(awards []Award) uint64 {
	var total uint64
	for _, award := range awards {
		total += award.Total
	}
	return total
}
