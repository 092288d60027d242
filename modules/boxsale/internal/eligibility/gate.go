package eligibility

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/samber/lo"
)

type (
	reducer  func(refs []SourceRef, predicate func(SourceRef) bool) bool
	selector func(refs []SourceRef, predicate func(SourceRef) bool) []SourceRef
)

var reducers = map[Mode]reducer{
	And: lo.EveryBy[SourceRef],
	Or:  lo.SomeBy[SourceRef],
}

var selectors = map[Mode]selector{
	And: func(refs []SourceRef, _ func(SourceRef) bool) []SourceRef {
		return refs
	},
	Or: func(refs []SourceRef, predicate func(SourceRef) bool) []SourceRef {
		ref, ok := lo.Find(refs, predicate)
		if !ok {
			return nil
		}
		return []SourceRef{ref}
	},
}

// Gate is the whitelist predicate of one distribution instance.
// It remembers which credentials each holder handed over.
type Gate struct {
	sources    []SourceRef
	mode       Mode
	registered map[common.Address][]SourceRef
}

func NewGate(sources []SourceRef, mode Mode) *Gate {
	return &Gate{
		sources:    append([]SourceRef(nil), sources...),
		mode:       mode,
		registered: make(map[common.Address][]SourceRef),
	}
}

func (g *Gate) Sources() []SourceRef {
	return append([]SourceRef(nil), g.sources...)
}

func (g *Gate) Mode() Mode {
	return g.mode
}

// SetSources replaces the source list. Callers enforce the launch deadline.
func (g *Gate) SetSources(sources []SourceRef, mode Mode) {
	g.sources = append([]SourceRef(nil), sources...)
	g.mode = mode
}

// IsEligible evaluates the combined predicate. A gate without sources admits everyone.
func (g *Gate) IsEligible(registry Registry, holder common.Address) bool {
	if len(g.sources) == 0 {
		return true
	}
	return reducers[g.mode](g.sources, g.holds(registry, holder))
}

// Registered reports whether holder already passed the gate.
func (g *Gate) Registered(holder common.Address) bool {
	_, ok := g.registered[holder]
	return ok
}

// Consumed returns the credentials locked for holder.
func (g *Gate) Consumed(holder common.Address) []SourceRef {
	return append([]SourceRef(nil), g.registered[holder]...)
}

// Consume checks the predicate and locks the qualifying credentials into spender.
// It succeeds at most once per holder.
func (g *Gate) Consume(registry Registry, holder, spender common.Address) ([]SourceRef, error) {
	if g.Registered(holder) {
		return nil, errors.Wrapf(errs.EligibilityError, "%s is already registered", holder)
	}
	if !g.IsEligible(registry, holder) {
		return nil, errors.Wrapf(errs.EligibilityError, "%s is not whitelisted", holder)
	}

	var consumed []SourceRef
	if len(g.sources) > 0 {
		consumed = selectors[g.mode](g.sources, g.holds(registry, holder))
	}
	for _, ref := range consumed {
		source, ok := registry.Source(ref.Address)
		if !ok {
			return nil, errors.Wrapf(errs.NotFound, "whitelist source %s", ref.Address)
		}
		if err := source.Consume(holder, spender); err != nil {
			return nil, errors.Wrapf(err, "can't consume credential of %s", ref.Address)
		}
	}
	g.registered[holder] = consumed
	return consumed, nil
}

// Release destroys or returns every credential consumed from holder.
func (g *Gate) Release(registry Registry, holder, spender common.Address) error {
	for _, ref := range g.registered[holder] {
		source, ok := registry.Source(ref.Address)
		if !ok {
			return errors.Wrapf(errs.NotFound, "whitelist source %s", ref.Address)
		}
		if err := source.Release(holder, spender, ref.Kind); err != nil {
			return errors.Wrapf(err, "can't release credential of %s", ref.Address)
		}
	}
	g.registered[holder] = nil
	return nil
}

func (g *Gate) Clone() *Gate {
	registered := make(map[common.Address][]SourceRef, len(g.registered))
	for holder, refs := range g.registered {
		registered[holder] = append([]SourceRef(nil), refs...)
	}
	return &Gate{
		sources:    append([]SourceRef(nil), g.sources...),
		mode:       g.mode,
		registered: registered,
	}
}

func (g *Gate) holds(registry Registry, holder common.Address) func(SourceRef) bool {
	return func(ref SourceRef) bool {
		source, ok := registry.Source(ref.Address)
		return ok && source.IsEligible(holder)
	}
}
