package eligibility

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
)

// Kind decides what happens to a consumed credential at settlement.
type Kind uint8

const (
	// OneTime credentials are destroyed on release.
	OneTime Kind = iota + 1
	// Reusable credentials are returned to the holder on release.
	Reusable
)

func (k Kind) String() string {
	switch k {
	case OneTime:
		return "one-time"
	case Reusable:
		return "reusable"
	}
	return "unknown"
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-time", "onetime", "one_time":
		return OneTime, nil
	case "reusable":
		return Reusable, nil
	}
	return 0, errors.Wrapf(errs.InvalidArgument, "unknown credential kind %q", s)
}

// Mode combines the per-source predicates of a gate.
type Mode uint8

const (
	// Or requires a credential from at least one source. Only the first eligible source is consumed.
	Or Mode = iota
	// And requires a credential from every source. All of them are consumed.
	And
)

func (m Mode) String() string {
	if m == And {
		return "and"
	}
	return "or"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "or":
		return Or, nil
	case "and":
		return And, nil
	}
	return 0, errors.Wrapf(errs.InvalidArgument, "unknown combine mode %q", s)
}

// Source is a collection of whitelist credentials.
type Source interface {
	IsEligible(holder common.Address) bool
	BalanceOf(holder common.Address) uint64

	// Consume locks one credential of holder into spender.
	Consume(holder, spender common.Address) error

	// Release destroys (OneTime) or returns (Reusable) a credential previously consumed by spender.
	Release(holder, spender common.Address, kind Kind) error
}

// Registry resolves credential sources by address.
type Registry interface {
	Source(addr common.Address) (Source, bool)
}

// SourceRef is one entry of a gate's ordered source list.
type SourceRef struct {
	Address common.Address
	Kind    Kind
}
