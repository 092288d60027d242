package allocation

import (
	"testing"

	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stakes(paid ...uint64) []Entry {
	entries := make([]Entry, len(paid))
	for i, p := range paid {
		entries[i] = Entry{Index: uint64(i + 1), Paid: uint128.From64(p)}
	}
	return entries
}

func tickets(counts ...uint64) []Entry {
	entries := make([]Entry, len(counts))
	for i, c := range counts {
		entries[i] = Entry{Index: uint64(i + 1), Tickets: c, Paid: uint128.From64(c * 10)}
	}
	return entries
}

func TestRateProportional(t *testing.T) {
	params := RateParams{
		PoolSize:  100,
		ShareRate: 100,
		RatePrice: uint128.From64(2),
		EvenPrice: uint128.From64(2),
	}
	result, err := Rate(stakes(30, 10, 10), params, uint256.NewInt(42))
	require.NoError(t, err)

	assert.Equal(t, []Award{
		{Index: 1, Rate: 15, Total: 15, Cost: uint128.From64(30)},
		{Index: 2, Rate: 5, Total: 5, Cost: uint128.From64(10)},
		{Index: 3, Rate: 5, Total: 5, Cost: uint128.From64(10)},
	}, result.Awards)
	assert.Equal(t, uint64(25), result.Distributed)
	assert.LessOrEqual(t, result.Distributed, params.PoolSize)
}

func TestRateRemainder(t *testing.T) {
	params := RateParams{PoolSize: 10, ShareRate: 100, RatePrice: uint128.From64(1)}
	seed := uint256.NewInt(7)

	result, err := Rate(stakes(100, 100, 100), params, seed)
	require.NoError(t, err)
	require.Equal(t, uint64(10), result.Distributed)

	lucky := randomness.Permutation(seed, 3)[0]
	for i, award := range result.Awards {
		if i == lucky {
			assert.Equal(t, uint64(4), award.Rate, "first booking in permutation order takes the remainder")
		} else {
			assert.Equal(t, uint64(3), award.Rate)
		}
	}
}

func TestRateEvenRounds(t *testing.T) {
	params := RateParams{
		PoolSize:  10,
		ShareRate: 50,
		RatePrice: uint128.From64(1),
		EvenPrice: uint128.From64(1),
	}
	seed := uint256.NewInt(99)
	result, err := Rate(stakes(10, 10), params, seed)
	require.NoError(t, err)

	perm := randomness.Permutation(seed, 2)
	first, second := result.Awards[perm[0]], result.Awards[perm[1]]
	assert.Equal(t, uint64(3), first.Rate)
	assert.Equal(t, uint64(3), first.Even)
	assert.Equal(t, uint64(2), second.Rate)
	assert.Equal(t, uint64(2), second.Even)
	assert.Equal(t, uint64(10), result.Distributed)
	assert.Equal(t, uint128.From64(6), first.Cost)
}

func TestRateExcludesZeroStake(t *testing.T) {
	params := RateParams{PoolSize: 10, ShareRate: 100, RatePrice: uint128.From64(1)}
	result, err := Rate(stakes(0, 5), params, uint256.NewInt(1))
	require.NoError(t, err)
	require.Len(t, result.Awards, 1)
	assert.Equal(t, uint64(2), result.Awards[0].Index)
	assert.Equal(t, uint64(5), result.Awards[0].Total, "undersubscribed pool leaves items unallocated")

	result, err = Rate(nil, params, uint256.NewInt(1))
	require.NoError(t, err)
	assert.Empty(t, result.Awards)
	assert.Zero(t, result.Distributed)
}

func TestRateInvalidParams(t *testing.T) {
	_, err := Rate(stakes(1), RateParams{PoolSize: 1, ShareRate: 100}, uint256.NewInt(1))
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestRateNeverOverAllocates(t *testing.T) {
	paid := []uint64{1, 3, 7, 13, 29, 31, 64, 100, 250, 999}
	for seed := uint64(0); seed < 20; seed++ {
		for _, pool := range []uint64{1, 7, 50, 1000} {
			for _, shareRate := range []uint64{0, 33, 100} {
				params := RateParams{
					PoolSize:  pool,
					ShareRate: shareRate,
					RatePrice: uint128.From64(3),
					EvenPrice: uint128.From64(5),
				}
				entries := stakes(paid...)
				result, err := Rate(entries, params, uint256.NewInt(seed))
				require.NoError(t, err)
				require.LessOrEqual(t, result.Distributed, pool)

				var rate uint64
				for i, award := range result.Awards {
					rate += award.Rate
					cost := params.RatePrice.Mul64(award.Rate).Add(params.EvenPrice.Mul64(award.Even))
					require.Equal(t, cost, award.Cost)
					require.LessOrEqual(t, award.Cost.Cmp(entries[i].Paid), 0, "cost never exceeds the stake")
				}
				require.LessOrEqual(t, rate, params.RateAllocable()+params.EvenAllocable())
			}
		}
	}
}

func TestRateDeterministic(t *testing.T) {
	params := RateParams{PoolSize: 17, ShareRate: 60, RatePrice: uint128.From64(2), EvenPrice: uint128.From64(3)}
	entries := stakes(11, 23, 5, 8, 40)
	a, err := Rate(entries, params, uint256.NewInt(5))
	require.NoError(t, err)
	b, err := Rate(entries, params, uint256.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEvenDraw(t *testing.T) {
	params := EvenParams{PoolSize: 10, TicketPrice: uint128.From64(10), MaxTicket: 5, PerTicket: 1}
	result, err := Even(tickets(1, 2, 3, 4, 5), params, uint256.NewInt(2024))
	require.NoError(t, err)

	assert.Equal(t, uint64(10), result.Distributed)
	var winning uint64
	for _, award := range result.Awards {
		winning += award.WinningTickets
		assert.Equal(t, award.WinningTickets, award.Total, "a winning ticket is worth exactly one item")
		assert.Equal(t, params.TicketPrice.Mul64(award.WinningTickets), award.Cost)
		assert.LessOrEqual(t, award.WinningTickets, award.Index)
	}
	assert.Equal(t, uint64(10), winning)
}

func TestEvenPerTicket(t *testing.T) {
	params := EvenParams{PoolSize: 10, TicketPrice: uint128.From64(1), PerTicket: 3}
	result, err := Even(tickets(2, 2), params, uint256.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), result.Distributed, "a partial PerTicket is never handed out")

	var winning uint64
	for _, award := range result.Awards {
		winning += award.WinningTickets
	}
	assert.Equal(t, uint64(3), winning)
}

func TestEvenMaxTicket(t *testing.T) {
	params := EvenParams{PoolSize: 100, TicketPrice: uint128.From64(1), MaxTicket: 5, PerTicket: 1}
	result, err := Even(tickets(8, 0), params, uint256.NewInt(1))
	require.NoError(t, err)
	require.Len(t, result.Awards, 1)
	assert.Equal(t, uint64(5), result.Awards[0].WinningTickets)

	award, ok := result.Award(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), award.Total)
	_, ok = result.Award(2)
	assert.False(t, ok)
}

func TestEvenDeterministic(t *testing.T) {
	params := EvenParams{PoolSize: 6, TicketPrice: uint128.From64(1), MaxTicket: 10, PerTicket: 2}
	entries := tickets(3, 1, 4, 1, 5)
	a, err := Even(entries, params, uint256.NewInt(31337))
	require.NoError(t, err)
	b, err := Even(entries, params, uint256.NewInt(31337))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = Even(entries, EvenParams{PoolSize: 6}, uint256.NewInt(1))
	assert.ErrorIs(t, err, errs.InvalidArgument)
}
