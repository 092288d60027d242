package httphandler

import (
	"github.com/gaze-network/boxsale/modules/boxsale/internal/subscription"
)

// Amounts are base unit decimal strings.

type booking struct {
	Index          uint64 `json:"index"`
	Address        string `json:"address"`
	Paid           string `json:"paid"`
	Tickets        uint64 `json:"tickets"`
	RateAllocated  uint64 `json:"rateAllocated"`
	EvenAllocated  uint64 `json:"evenAllocated"`
	WinningTickets uint64 `json:"winningTickets"`
	TotalAllocated uint64 `json:"totalAllocated"`
	Claimed        bool   `json:"claimed"`
}

func mapBooking(b subscription.Booking) booking {
	return booking{
		Index:          b.Index,
		Address:        b.Address.Hex(),
		Paid:           b.Paid.String(),
		Tickets:        b.Tickets,
		RateAllocated:  b.RateAllocated,
		EvenAllocated:  b.EvenAllocated,
		WinningTickets: b.WinningTickets,
		TotalAllocated: b.TotalAllocated,
		Claimed:        b.Claimed,
	}
}
