package randomness

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
)

// Oracle is the randomness service a distribution instance pays to obtain a seed.
// Seeds are bound to the ledger height at which they were requested.
type Oracle interface {
	Address() common.Address
	Fee() uint128.Uint128
	Request(height int64) error
	Seed(height int64) (*uint256.Int, bool)
}

type Status uint8

const (
	Pending Status = iota + 1
	Ready
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	}
	return "none"
}

// Binding is the seed future of a distribution instance.
type Binding struct {
	RequestHeight int64
	Status        Status
	seed          *uint256.Int
}

func NewBinding(height int64) *Binding {
	return &Binding{RequestHeight: height, Status: Pending}
}

// Poll moves a pending binding to Ready once the oracle resolved the recorded height.
func (b *Binding) Poll(oracle Oracle) bool {
	if b.Status == Ready {
		return true
	}
	seed, ok := oracle.Seed(b.RequestHeight)
	if !ok {
		return false
	}
	b.seed = seed.Clone()
	b.Status = Ready
	return true
}

// Seed returns the resolved seed.
func (b *Binding) Seed() (*uint256.Int, bool) {
	if b.Status != Ready {
		return nil, false
	}
	return b.seed.Clone(), true
}

func (b *Binding) Clone() *Binding {
	clone := *b
	if b.seed != nil {
		clone.seed = b.seed.Clone()
	}
	return &clone
}
