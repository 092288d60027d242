package eligibility

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	staking = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice   = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol   = common.HexToAddress("0x0000000000000000000000000000000000000ca1")

	oneTimeAddr  = common.HexToAddress("0x0000000000000000000000000000000000001001")
	reusableAddr = common.HexToAddress("0x0000000000000000000000000000000000001002")
)

type registry map[common.Address]*Collection

func (r registry) Source(addr common.Address) (Source, bool) {
	c, ok := r[addr]
	return c, ok
}

func newCollection(t *testing.T, addr common.Address, holders ...common.Address) *Collection {
	t.Helper()
	c := NewCollection(addr, owner, "WhiteList Test")
	_, err := c.AddWhitelist(owner, holders)
	require.NoError(t, err)
	_, err = c.MintToWhitelist(owner)
	require.NoError(t, err)
	require.NoError(t, c.SetStaking(owner, staking))
	for _, holder := range holders {
		c.SetApprovalForAll(holder, staking, true)
	}
	return c
}

func TestGateOr(t *testing.T) {
	oneTime := newCollection(t, oneTimeAddr, alice)
	reusable := newCollection(t, reusableAddr, alice, bob)
	reg := registry{oneTimeAddr: oneTime, reusableAddr: reusable}
	gate := NewGate([]SourceRef{{oneTimeAddr, OneTime}, {reusableAddr, Reusable}}, Or)

	assert.True(t, gate.IsEligible(reg, alice))
	assert.True(t, gate.IsEligible(reg, bob))
	assert.False(t, gate.IsEligible(reg, carol))

	t.Run("only_first_eligible_source_is_consumed", func(t *testing.T) {
		consumed, err := gate.Consume(reg, alice, staking)
		require.NoError(t, err)
		assert.Equal(t, []SourceRef{{oneTimeAddr, OneTime}}, consumed)
		assert.Equal(t, uint64(0), oneTime.BalanceOf(alice))
		assert.Equal(t, uint64(1), reusable.BalanceOf(alice))
		assert.Equal(t, uint64(1), oneTime.BalanceOf(staking))
	})
	t.Run("falls_back_to_later_source", func(t *testing.T) {
		consumed, err := gate.Consume(reg, bob, staking)
		require.NoError(t, err)
		assert.Equal(t, []SourceRef{{reusableAddr, Reusable}}, consumed)
	})
	t.Run("second_registration_fails", func(t *testing.T) {
		_, err := gate.Consume(reg, alice, staking)
		assert.ErrorIs(t, err, errs.EligibilityError)
	})
	t.Run("not_whitelisted", func(t *testing.T) {
		_, err := gate.Consume(reg, carol, staking)
		assert.ErrorIs(t, err, errs.EligibilityError)
		assert.False(t, gate.Registered(carol))
	})
	t.Run("release", func(t *testing.T) {
		require.NoError(t, gate.Release(reg, alice, staking))
		require.NoError(t, gate.Release(reg, bob, staking))
		assert.Equal(t, uint64(0), oneTime.BalanceOf(alice), "one-time credential must be destroyed")
		assert.Equal(t, uint64(0), oneTime.BalanceOf(staking))
		assert.Equal(t, uint64(0), oneTime.TotalSupply())
		assert.Equal(t, uint64(1), reusable.BalanceOf(bob), "reusable credential must be returned")
		assert.Equal(t, uint64(0), reusable.BalanceOf(staking))
		assert.True(t, gate.Registered(alice), "release must not reopen registration")
	})
}

func TestGateAnd(t *testing.T) {
	oneTime := newCollection(t, oneTimeAddr, alice, bob)
	reusable := newCollection(t, reusableAddr, alice)
	reg := registry{oneTimeAddr: oneTime, reusableAddr: reusable}
	gate := NewGate([]SourceRef{{oneTimeAddr, OneTime}, {reusableAddr, Reusable}}, And)

	assert.True(t, gate.IsEligible(reg, alice))
	assert.False(t, gate.IsEligible(reg, bob))

	consumed, err := gate.Consume(reg, alice, staking)
	require.NoError(t, err)
	assert.Len(t, consumed, 2)
	assert.Equal(t, uint64(0), oneTime.BalanceOf(alice))
	assert.Equal(t, uint64(0), reusable.BalanceOf(alice))

	_, err = gate.Consume(reg, bob, staking)
	assert.ErrorIs(t, err, errs.EligibilityError)
}

func TestGateWithoutSources(t *testing.T) {
	gate := NewGate(nil, And)
	reg := registry{}
	assert.True(t, gate.IsEligible(reg, carol))

	consumed, err := gate.Consume(reg, carol, staking)
	require.NoError(t, err)
	assert.Empty(t, consumed)
	require.NoError(t, gate.Release(reg, carol, staking))
}

func TestGateClone(t *testing.T) {
	reusable := newCollection(t, reusableAddr, alice)
	reg := registry{reusableAddr: reusable}
	gate := NewGate([]SourceRef{{reusableAddr, Reusable}}, Or)

	clone := gate.Clone()
	_, err := clone.Consume(reg, alice, staking)
	require.NoError(t, err)
	assert.True(t, clone.Registered(alice))
	assert.False(t, gate.Registered(alice))
}

func TestCollectionSoulbound(t *testing.T) {
	c := newCollection(t, reusableAddr, alice, bob)

	err := c.Transfer(alice, alice, bob)
	assert.ErrorIs(t, err, errs.EligibilityError)

	c.SetApprovalForAll(bob, staking, false)
	err = c.Consume(bob, staking)
	assert.ErrorIs(t, err, errs.EligibilityError, "staking contract needs approval")

	_, err = c.AddWhitelist(alice, []common.Address{carol})
	assert.ErrorIs(t, err, errs.Unauthorized)

	minted, err := c.MintToWhitelist(owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), minted, "holders are minted once")
	assert.Equal(t, uint64(2), c.TotalSupply())
}

func TestParse(t *testing.T) {
	kind, err := ParseKind("one-time")
	require.NoError(t, err)
	assert.Equal(t, OneTime, kind)
	_, err = ParseKind("forever")
	assert.ErrorIs(t, err, errs.InvalidArgument)

	mode, err := ParseMode("AND")
	require.NoError(t, err)
	assert.Equal(t, And, mode)
	mode, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Or, mode)
}
