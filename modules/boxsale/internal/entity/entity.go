package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/uint128"
)

// Block is the position of the hosting ledger at which a command executes.
type Block struct {
	Height int64
	Time   time.Time
}

// Unix returns the block time in seconds, the unit every phase threshold is configured in.
func (b Block) Unix() int64 {
	return b.Time.Unix()
}

// Event is an observable state change emitted by a command.
type Event struct {
	Sequence    uint64
	CommandSeq  uint64
	BlockHeight int64
	BlockTime   time.Time
	Instance    string
	Type        string
	Address     common.Address
	Attributes  map[string]string
}

// Command is a journaled, successfully applied command.
type Command struct {
	Sequence    uint64
	Name        string
	Payload     []byte
	BlockHeight int64
	BlockTime   time.Time
}

// BookingRecord is the persisted snapshot of a booking.
type BookingRecord struct {
	Instance       string
	Index          uint64
	Address        common.Address
	Paid           uint128.Uint128
	Tickets        uint64
	RateAllocated  uint64
	EvenAllocated  uint64
	WinningTickets uint64
	TotalAllocated uint64
	Refund         uint128.Uint128
	Claimed        bool
	UpdatedHeight  int64
}
