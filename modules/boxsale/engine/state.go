package engine

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/keys"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/mysterybox"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/payment"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/subscription"
)

var (
	_ subscription.Env     = (*State)(nil)
	_ mysterybox.Env       = (*State)(nil)
	_ eligibility.Registry = (*State)(nil)
)

// State is everything the engine owns. Only commands mutate it, and always on a clone.
type State struct {
	Bank        *payment.Bank
	LocalOracle *randomness.LocalOracle
	KeyLedger   *keys.Ledger
	Box         *mysterybox.Box
	Collections map[common.Address]*eligibility.Collection
	Sales       map[string]*subscription.Sale

	// Owner administers the sales, the box and the credential collections.
	Owner common.Address

	saleOrder []string
	block     entity.Block
	events    []entity.Event
}

func NewState(owner common.Address, bank *payment.Bank, oracle *randomness.LocalOracle, keyLedger *keys.Ledger, box *mysterybox.Box) *State {
	return &State{
		Bank:        bank,
		LocalOracle: oracle,
		KeyLedger:   keyLedger,
		Box:         box,
		Collections: make(map[common.Address]*eligibility.Collection),
		Sales:       make(map[string]*subscription.Sale),
		Owner:       owner,
	}
}

func (s *State) AddCollection(collection *eligibility.Collection) error {
	if _, ok := s.Collections[collection.Address]; ok {
		return errors.Wrapf(errs.InvalidArgument, "collection %s already exists", collection.Address)
	}
	s.Collections[collection.Address] = collection
	return nil
}

func (s *State) AddSale(sale *subscription.Sale) error {
	if _, ok := s.Sales[sale.Name()]; ok {
		return errors.Wrapf(errs.InvalidArgument, "sale %s already exists", sale.Name())
	}
	s.Sales[sale.Name()] = sale
	s.saleOrder = append(s.saleOrder, sale.Name())
	return nil
}

func (s *State) Sale(name string) (*subscription.Sale, error) {
	sale, ok := s.Sales[name]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "sale %q", name)
	}
	return sale, nil
}

func (s *State) Collection(addr common.Address) (*eligibility.Collection, error) {
	collection, ok := s.Collections[addr]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "collection %s", addr)
	}
	return collection, nil
}

// SaleNames returns the sale names in creation order.
func (s *State) SaleNames() []string {
	return slices.Clone(s.saleOrder)
}

func (s *State) Block() entity.Block {
	return s.block
}

func (s *State) Payments() payment.Ledger {
	return s.Bank
}

func (s *State) Registry() eligibility.Registry {
	return s
}

func (s *State) Source(addr common.Address) (eligibility.Source, bool) {
	collection, ok := s.Collections[addr]
	if !ok {
		return nil, false
	}
	return collection, true
}

func (s *State) Oracle() randomness.Oracle {
	return s.LocalOracle
}

func (s *State) Keys() keys.Issuer {
	return s.KeyLedger
}

func (s *State) Emit(event entity.Event) {
	s.events = append(s.events, event)
}

// Events returns the events emitted since the state was cloned.
func (s *State) Events() []entity.Event {
	return slices.Clone(s.events)
}

// VerifyTotals checks the accounting of every sale.
func (s *State) VerifyTotals() error {
	for _, name := range s.saleOrder {
		if err := s.Sales[name].VerifyTotals(); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Clone deep copies the state for the next command at block. The clone starts with no events.
func (s *State) Clone(block entity.Block) *State {
	clone := &State{
		Bank:        s.Bank.Clone(),
		LocalOracle: s.LocalOracle.Clone(),
		KeyLedger:   s.KeyLedger.Clone(),
		Box:         s.Box.Clone(),
		Collections: make(map[common.Address]*eligibility.Collection, len(s.Collections)),
		Sales:       make(map[string]*subscription.Sale, len(s.Sales)),
		Owner:       s.Owner,
		saleOrder:   slices.Clone(s.saleOrder),
		block:       block,
	}
	for addr, collection := range s.Collections {
		clone.Collections[addr] = collection.Clone()
	}
	for name, sale := range s.Sales {
		clone.Sales[name] = sale.Clone()
	}
	return clone
}
