package allocation

import (
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

// Even draws winning tickets. Every ticket is one entry in the draw; entries are visited in seed
// permutation order and each wins PerTicket items while a whole PerTicket still fits in the pool.
// Tickets above MaxTicket per booking do not take part.
func Even(entries []Entry, params EvenParams, seed *uint256.Int) (Result, error) {
	if err := params.validate(); err != nil {
		return Result{}, err
	}
	entries = lo.Filter(entries, func(e Entry, _ int) bool { return e.Tickets > 0 })

	awards := make([]Award, len(entries))
	var draw []int
	for i, entry := range entries {
		awards[i].Index = entry.Index
		tickets := entry.Tickets
		if params.MaxTicket > 0 {
			tickets = min(tickets, params.MaxTicket)
		}
		for range tickets {
			draw = append(draw, i)
		}
	}

	remaining := params.PoolSize
	for _, ticket := range randomness.Permutation(seed, len(draw)) {
		if remaining < params.PerTicket {
			break
		}
		award := &awards[draw[ticket]]
		award.WinningTickets++
		award.Total += params.PerTicket
		remaining -= params.PerTicket
	}
	for i := range awards {
		awards[i].Cost = params.TicketPrice.Mul64(awards[i].WinningTickets)
	}
	return Result{Awards: awards, Distributed: sumOf(awards)}, nil
}
