package mysterybox

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/keys"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/payment"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	launch = int64(1_000)
	lockup = int64(5_000)
)

var (
	owner     = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	boxAddr   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	escrow    = common.HexToAddress("0x00000000000000000000000000000000000000e5")
	treasury  = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	recipient = common.HexToAddress("0x00000000000000000000000000000000000000e2")
	alice     = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob       = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	uris = []string{
		"https://ipfs.io/ipfs/QmeJL6hGSHvcxiFJyuwFSG1Yv2MWLsnDKyeQheQdzwnEo3",
		"https://ipfs.io/ipfs/QmXbw7RZwyLDa1q4X9N2RwyEEvjDVCc2L6pJ1oiS4Ehf9S",
		"https://ipfs.io/ipfs/QmV5FRQZLogf8JxGCn4tymPAsQoH74P52WXyYHFgQGi873",
	}
)

type testEnv struct {
	block  entity.Block
	bank   *payment.Bank
	keys   *keys.Ledger
	events []entity.Event
}

func (e *testEnv) Block() entity.Block { return e.block }

func (e *testEnv) Payments() payment.Ledger { return e.bank }

func (e *testEnv) Keys() keys.Issuer { return e.keys }

func (e *testEnv) Emit(event entity.Event) { e.events = append(e.events, event) }

func (e *testEnv) at(unix int64) { e.block = entity.Block{Height: unix, Time: time.Unix(unix, 0)} }

func newBox(t *testing.T) (*Box, *testEnv) {
	t.Helper()
	env := &testEnv{bank: payment.NewBank(), keys: keys.NewLedger(owner, 30)}
	env.keys.AddMinter(escrow)
	env.keys.AddMinter(boxAddr)
	env.at(launch)

	box, err := New(Config{
		Name:              "Mystery Box",
		Owner:             owner,
		Price:             uint128.From64(100),
		ProtocolFeeRate:   50,
		Launch:            launch,
		Lockup:            lockup,
		PaymentRecipient:  recipient,
		TreasuryRecipient: treasury,
	}, boxAddr)
	require.NoError(t, err)
	require.NoError(t, box.RegisterItems(env, owner, uris, []uint64{10, 10, 10}))
	return box, env
}

func TestRegisterItems(t *testing.T) {
	box, env := newBox(t)
	assert.Equal(t, uint64(30), box.TotalItems())

	err := box.RegisterItems(env, alice, uris[:1], []uint64{1})
	assert.ErrorIs(t, err, errs.Unauthorized)
	err = box.RegisterItems(env, owner, uris, []uint64{1})
	assert.ErrorIs(t, err, errs.InvalidArgument)

	require.NoError(t, box.RegisterItems(env, owner, uris[:1], []uint64{5}))
	assert.Equal(t, uint64(35), box.TotalItems(), "registration is additive")
	assert.Equal(t, uint64(30), box.Buckets()[3].FirstID)

	_, err = box.Wire(env, "genesis", Subscription, 10)
	require.NoError(t, err)
	err = box.RegisterItems(env, owner, uris[:1], []uint64{5})
	assert.ErrorIs(t, err, errs.PhaseError)
}

func TestWire(t *testing.T) {
	box, env := newBox(t)

	first, err := box.Wire(env, "genesis", Subscription, 12)
	require.NoError(t, err)
	assert.Equal(t, Range{Instance: "genesis", Kind: Subscription, Lo: 0, Hi: 11, Next: 0}, first)

	second, err := box.Wire(env, DirectSale, Direct, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), second.Lo)
	assert.Equal(t, uint64(19), second.Hi)

	_, err = box.Wire(env, "genesis", Subscription, 1)
	assert.ErrorIs(t, err, errs.InvalidArgument)
	_, err = box.Wire(env, "late", Subscription, 11)
	assert.ErrorIs(t, err, errs.CapacityError)

	_, err = box.RangeOf("late")
	assert.ErrorIs(t, err, errs.NotFound)
	assert.Equal(t, []Range{first, second}, box.Ranges())
}

func TestClaimItems(t *testing.T) {
	box, env := newBox(t)
	_, err := box.Wire(env, "genesis", Subscription, 12)
	require.NoError(t, err)
	_, err = box.Wire(env, "second", Subscription, 5)
	require.NoError(t, err)
	require.NoError(t, env.keys.Mint(escrow, alice, "genesis", 12))
	require.NoError(t, env.keys.Mint(escrow, bob, "second", 5))

	_, err = box.ClaimItems(env, alice, alice, "genesis", 1)
	assert.ErrorIs(t, err, errs.PhaseError, "items are not revealed before lockup")

	env.at(lockup)
	_, err = box.ClaimItems(env, alice, alice, "genesis", 1)
	assert.ErrorIs(t, err, errs.EligibilityError, "box is not approved")

	env.keys.SetApprovalForAll(alice, boxAddr, true)
	env.keys.SetApprovalForAll(bob, boxAddr, true)
	_, err = box.ClaimItems(env, alice, alice, "second", 1)
	assert.ErrorIs(t, err, errs.InsufficientFunds, "alice holds no keys of the second instance")

	t.Run("round_trip", func(t *testing.T) {
		before := box.Buckets()
		ids, err := box.ClaimItems(env, alice, bob, "genesis", 11)
		require.NoError(t, err)
		assert.Len(t, ids, 11)
		assert.Equal(t, uint64(0), ids[0])
		assert.Equal(t, uint64(10), ids[10])

		after := box.Buckets()
		var consumed uint64
		for i := range after {
			consumed += before[i].Remaining - after[i].Remaining
		}
		assert.Equal(t, uint64(11), consumed)
		assert.Equal(t, uint64(0), after[0].Remaining)
		assert.Equal(t, uint64(9), after[1].Remaining)
		assert.Equal(t, uint64(1), env.keys.BalanceOf("genesis", alice))

		owner, err := box.OwnerOf(10)
		require.NoError(t, err)
		assert.Equal(t, bob, owner)
		uri, err := box.TokenURI(10)
		require.NoError(t, err)
		assert.Equal(t, uris[1], uri)
	})
	t.Run("never_crosses_range", func(t *testing.T) {
		require.NoError(t, env.keys.Mint(escrow, alice, "genesis", 1))
		_, err := box.ClaimItems(env, alice, alice, "genesis", 2)
		assert.ErrorIs(t, err, errs.CapacityError)

		ids, err := box.ClaimItems(env, alice, alice, "genesis", 1)
		require.NoError(t, err)
		assert.Equal(t, []uint64{11}, ids)

		ids, err = box.ClaimItems(env, bob, bob, "second", 5)
		require.NoError(t, err)
		assert.Equal(t, []uint64{12, 13, 14, 15, 16}, ids)
		r, err := box.RangeOf("second")
		require.NoError(t, err)
		assert.Zero(t, r.Left())
	})

	_, err = box.TokenURI(29)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestBuyKeys(t *testing.T) {
	box, env := newBox(t)
	require.NoError(t, env.bank.Mint(common.Address{}, alice, uint128.From64(1_000)))

	_, err := box.BuyKeys(env, alice, 1, uint128.From64(100))
	assert.ErrorIs(t, err, errs.NotFound)

	_, err = box.Wire(env, DirectSale, Direct, 3)
	require.NoError(t, err)

	_, err = box.BuyKeys(env, alice, 2, uint128.From64(100))
	assert.ErrorIs(t, err, errs.InsufficientFunds)

	fee, err := box.BuyKeys(env, alice, 2, uint128.From64(200))
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(10), fee)
	assert.Equal(t, uint128.From64(10), env.bank.BalanceOf(common.Address{}, treasury))
	assert.Equal(t, uint128.From64(190), env.bank.BalanceOf(common.Address{}, recipient))
	assert.Equal(t, uint64(2), env.keys.BalanceOf(DirectSale, alice))

	_, err = box.BuyKeys(env, alice, 2, uint128.From64(200))
	assert.ErrorIs(t, err, errs.CapacityError)
	assert.Equal(t, uint64(2), box.KeysSold())

	env.at(launch - 1)
	_, err = box.BuyKeys(env, alice, 1, uint128.From64(100))
	assert.ErrorIs(t, err, errs.PhaseError)
}

func TestBoxClone(t *testing.T) {
	box, env := newBox(t)
	clone := box.Clone()
	_, err := clone.Wire(env, "genesis", Subscription, 1)
	require.NoError(t, err)

	_, err = box.RangeOf("genesis")
	assert.ErrorIs(t, err, errs.NotFound)
	require.NoError(t, box.SetLockup(env, owner, 0))
	assert.Equal(t, lockup, clone.Config.Lockup)
}
