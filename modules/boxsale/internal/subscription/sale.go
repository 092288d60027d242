package subscription

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/keys"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/payment"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/gaze-network/uint128"
)

// Env is the part of the hosting ledger a sale operates on.
type Env interface {
	Block() entity.Block
	Payments() payment.Ledger
	Registry() eligibility.Registry
	Oracle() randomness.Oracle
	Keys() keys.Issuer
	Emit(event entity.Event)
}

type Booking struct {
	Index          uint64
	Address        common.Address
	Paid           uint128.Uint128
	Tickets        uint64
	RateAllocated  uint64
	EvenAllocated  uint64
	WinningTickets uint64
	TotalAllocated uint64
	Cost           uint128.Uint128
	Claimed        bool
}

// Refund is what the booking gets back at settlement. Valid once allocated.
func (b *Booking) Refund() (uint128.Uint128, error) {
	if b.Cost.Cmp(b.Paid) > 0 {
		return uint128.Zero, errors.Wrapf(errs.ArithmeticInvariant, "booking %d costs %s but paid %s", b.Index, b.Cost, b.Paid)
	}
	return b.Paid.Sub(b.Cost), nil
}

type Totals struct {
	TotalFund    uint128.Uint128
	TotalTickets uint64
	Distributed  uint64
	Available    uint64
}

// Sale is one distribution instance. It owns its bookings, totals and seed binding.
type Sale struct {
	Config Config

	// Escrow holds the participants' funds until settlement and mints their keys.
	Escrow common.Address

	gate      *eligibility.Gate
	bookings  []*Booking
	byAddress map[common.Address]uint64
	totals    Totals
	binding   *randomness.Binding
	allocated bool
}

func NewSale(config Config, escrow common.Address) (*Sale, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Sale{
		Config:    config,
		Escrow:    escrow,
		gate:      eligibility.NewGate(config.Whitelist, config.Mode),
		byAddress: make(map[common.Address]uint64),
		totals:    Totals{Available: config.PoolSize},
	}, nil
}

func (s *Sale) Name() string {
	return s.Config.Name
}

func (s *Sale) Totals() Totals {
	return s.totals
}

func (s *Sale) Allocated() bool {
	return s.allocated
}

func (s *Sale) Gate() *eligibility.Gate {
	return s.gate
}

// Bookings returns copies of every booking ordered by index.
func (s *Sale) Bookings() []Booking {
	bookings := make([]Booking, len(s.bookings))
	for i, b := range s.bookings {
		bookings[i] = *b
	}
	return bookings
}

func (s *Sale) Clone() *Sale {
	clone := *s
	clone.gate = s.gate.Clone()
	clone.bookings = make([]*Booking, len(s.bookings))
	for i, b := range s.bookings {
		booking := *b
		clone.bookings[i] = &booking
	}
	clone.byAddress = make(map[common.Address]uint64, len(s.byAddress))
	for addr, index := range s.byAddress {
		clone.byAddress[addr] = index
	}
	if s.binding != nil {
		clone.binding = s.binding.Clone()
	}
	clone.Config.Whitelist = append([]eligibility.SourceRef(nil), s.Config.Whitelist...)
	return &clone
}

func (s *Sale) booking(addr common.Address) (*Booking, bool) {
	index, ok := s.byAddress[addr]
	if !ok {
		return nil, false
	}
	return s.bookings[index-1], true
}

func (s *Sale) emit(env Env, eventType string, addr common.Address, attrs map[string]string) {
	env.Emit(entity.Event{
		Instance:   s.Config.Name,
		Type:       eventType,
		Address:    addr,
		Attributes: attrs,
	})
}
