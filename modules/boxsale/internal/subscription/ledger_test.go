package subscription

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x0000000000000000000000000000000000000ca1")
	dave  = common.HexToAddress("0x0000000000000000000000000000000000000da5")
	erin  = common.HexToAddress("0x0000000000000000000000000000000000000e11")
)

func TestStakeWindow(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 1000)
	sale := newSale(t, rateConfig())

	env.at(1, launch-1)
	_, err := sale.Stake(env, alice, uint128.From64(10))
	assert.ErrorIs(t, err, errs.PhaseError)

	env.at(2, launch)
	booking, err := sale.Stake(env, alice, uint128.From64(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), booking.Index)

	_, err = sale.Stake(env, alice, uint128.Zero)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	env.at(3, closeAt)
	_, err = sale.Stake(env, alice, uint128.From64(10))
	assert.ErrorIs(t, err, errs.PhaseError)
	assert.Equal(t, uint128.From64(10), sale.TotalFund())
}

func TestStakeUnboundedClose(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 1000)
	config := rateConfig()
	config.Close = 0
	sale := newSale(t, config)

	env.at(2, claimStart+1_000_000)
	_, err := sale.Stake(env, alice, uint128.From64(10))
	require.NoError(t, err)

	_, err = sale.RequestSeed(env, alice, uint128.From64(5))
	require.NoError(t, err)
	_, err = sale.Stake(env, alice, uint128.From64(10))
	assert.ErrorIs(t, err, errs.PhaseError, "no deposits once randomness is requested")
}

func TestStakeTopUp(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 1000)
	env.fund(t, bob, 1000)
	sale := newSale(t, rateConfig())

	_, err := sale.Stake(env, alice, uint128.From64(10))
	require.NoError(t, err)
	_, err = sale.Stake(env, bob, uint128.From64(7))
	require.NoError(t, err)
	booking, err := sale.Stake(env, alice, uint128.From64(5))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), booking.Index)
	assert.Equal(t, uint128.From64(15), booking.Paid)
	assert.Equal(t, uint64(2), sale.DepositIndex(bob))
	assert.Equal(t, uint64(0), sale.DepositIndex(carol))
	assert.Equal(t, uint128.From64(22), sale.TotalFund())
	assert.Equal(t, uint128.From64(22), env.balance(escrow))
	assert.Equal(t, uint128.From64(985), env.balance(alice))
	require.NoError(t, sale.VerifyTotals())
}

func TestStakeInsufficientBalance(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 5)
	sale := newSale(t, rateConfig())

	_, err := sale.Stake(env, alice, uint128.From64(6))
	assert.ErrorIs(t, err, errs.InsufficientFunds)
}

func TestStakeEligibility(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 100)
	env.fund(t, bob, 100)
	wl := env.whitelist(t, oneTimeAddr, alice)
	config := rateConfig()
	config.Whitelist = []eligibility.SourceRef{{Address: oneTimeAddr, Kind: eligibility.OneTime}}
	sale := newSale(t, config)

	_, err := sale.Stake(env, bob, uint128.From64(10))
	assert.ErrorIs(t, err, errs.EligibilityError)

	_, err = sale.Stake(env, alice, uint128.From64(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), wl.BalanceOf(alice), "credential is locked in the escrow")
	assert.Equal(t, uint64(1), wl.BalanceOf(escrow))

	_, err = sale.Stake(env, alice, uint128.From64(10))
	require.NoError(t, err, "top ups don't need the credential again")
}

func TestSetWhitelist(t *testing.T) {
	env := newTestEnv()
	env.whitelist(t, oneTimeAddr, alice)
	sale := newSale(t, rateConfig())
	refs := []eligibility.SourceRef{{Address: oneTimeAddr, Kind: eligibility.OneTime}}

	env.at(1, launch-10)
	err := sale.SetWhitelist(env, alice, refs, eligibility.And)
	assert.ErrorIs(t, err, errs.Unauthorized)
	err = sale.SetWhitelist(env, owner, []eligibility.SourceRef{{Address: reusableAddr}}, eligibility.And)
	assert.ErrorIs(t, err, errs.NotFound)
	require.NoError(t, sale.SetWhitelist(env, owner, refs, eligibility.And))
	assert.Equal(t, eligibility.And, sale.Gate().Mode())

	env.at(2, launch)
	err = sale.SetWhitelist(env, owner, nil, eligibility.Or)
	assert.ErrorIs(t, err, errs.PhaseError)
	assert.Len(t, sale.Gate().Sources(), 1)
}

func TestBuyTicket(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 1000)
	env.fund(t, bob, 15)
	sale := newSale(t, evenConfig())

	_, err := sale.BuyTicket(env, alice, 0, uint128.Zero)
	assert.ErrorIs(t, err, errs.CapacityError)

	_, err = sale.BuyTicket(env, alice, 2, uint128.From64(19))
	assert.ErrorIs(t, err, errs.InsufficientFunds)

	booking, err := sale.BuyTicket(env, alice, 3, uint128.From64(30))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), booking.Tickets)

	_, err = sale.BuyTicket(env, alice, 3, uint128.From64(30))
	assert.ErrorIs(t, err, errs.CapacityError, "cumulative tickets are capped")

	booking, err = sale.BuyTicket(env, alice, 2, uint128.From64(20))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), booking.Tickets)

	_, err = sale.BuyTicket(env, bob, 2, uint128.From64(20))
	assert.ErrorIs(t, err, errs.InsufficientFunds, "bob can't pay")

	_, err = sale.Stake(env, alice, uint128.From64(10))
	assert.ErrorIs(t, err, errs.InvalidArgument)

	assert.Equal(t, uint64(5), sale.TicketCount())
	assert.Equal(t, uint128.From64(50), sale.TotalFund())
}

func TestUnstake(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 100)
	sale := newSale(t, rateConfig())
	_, err := sale.Stake(env, alice, uint128.From64(40))
	require.NoError(t, err)

	t.Run("more_than_staked", func(t *testing.T) {
		_, err := sale.Unstake(env, alice, uint128.From64(41))
		assert.ErrorIs(t, err, errs.CapacityError)
		assert.ErrorIs(t, err, errs.InsufficientFunds)
		kind, ok := errs.KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, errs.CapacityError, kind)
	})
	t.Run("no_booking", func(t *testing.T) {
		_, err := sale.Unstake(env, bob, uint128.From64(1))
		assert.ErrorIs(t, err, errs.NotFound)
	})
	t.Run("refund", func(t *testing.T) {
		booking, err := sale.Unstake(env, alice, uint128.From64(15))
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(25), booking.Paid)
		assert.Equal(t, uint128.From64(75), env.balance(alice))
		assert.Equal(t, uint128.From64(25), sale.TotalFund())
		require.NoError(t, sale.VerifyTotals())
	})
	t.Run("after_seed_request", func(t *testing.T) {
		env.at(10, closeAt)
		_, err := sale.RequestSeed(env, alice, uint128.From64(5))
		require.NoError(t, err)
		_, err = sale.Unstake(env, alice, uint128.From64(1))
		assert.ErrorIs(t, err, errs.PhaseError)
	})
}

func TestUnstakeTickets(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 100)
	sale := newSale(t, evenConfig())
	_, err := sale.BuyTicket(env, alice, 4, uint128.From64(40))
	require.NoError(t, err)

	_, err = sale.Unstake(env, alice, uint128.From64(15))
	assert.ErrorIs(t, err, errs.InvalidArgument)

	booking, err := sale.Unstake(env, alice, uint128.From64(20))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), booking.Tickets)
	assert.Equal(t, uint64(2), sale.TicketCount())
	require.NoError(t, sale.VerifyTotals())
}

func TestGetLeastFund(t *testing.T) {
	env := newTestEnv()
	env.fund(t, alice, 1000)
	sale := newSale(t, rateConfig())

	least, err := sale.GetLeastFund()
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(2), least, "never below the rate price")

	_, err = sale.Stake(env, alice, uint128.From64(901))
	require.NoError(t, err)
	least, err = sale.GetLeastFund()
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(10), least, "ceil(901 / 100)")

	assert.Equal(t, uint64(100), sale.RateAllocable())
	assert.Equal(t, uint64(0), sale.EvenAllocable())
}
