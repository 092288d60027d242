package subscription

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/keys"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/payment"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const (
	launch     = int64(1_000)
	closeAt    = int64(2_000)
	claimStart = int64(3_000)
)

var (
	owner     = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	escrow    = common.HexToAddress("0x00000000000000000000000000000000000000e5")
	treasury  = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	recipient = common.HexToAddress("0x00000000000000000000000000000000000000e2")
	oracleAt  = common.HexToAddress("0x00000000000000000000000000000000000000e3")
	token     = common.HexToAddress("0x00000000000000000000000000000000000000c0")

	oneTimeAddr  = common.HexToAddress("0x0000000000000000000000000000000000001001")
	reusableAddr = common.HexToAddress("0x0000000000000000000000000000000000001002")
)

type registry map[common.Address]*eligibility.Collection

func (r registry) Source(addr common.Address) (eligibility.Source, bool) {
	c, ok := r[addr]
	return c, ok
}

type testEnv struct {
	block    entity.Block
	bank     *payment.Bank
	registry registry
	oracle   *randomness.LocalOracle
	keys     *keys.Ledger
	events   []entity.Event
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bank:     payment.NewBank(),
		registry: registry{},
		oracle:   randomness.NewLocalOracle(oracleAt, uint128.From64(5)),
		keys:     keys.NewLedger(owner, 0),
	}
	env.keys.AddMinter(escrow)
	env.at(1, launch)
	return env
}

func (e *testEnv) Block() entity.Block            { return e.block }
func (e *testEnv) Payments() payment.Ledger       { return e.bank }
func (e *testEnv) Registry() eligibility.Registry { return e.registry }
func (e *testEnv) Oracle() randomness.Oracle      { return e.oracle }
func (e *testEnv) Keys() keys.Issuer              { return e.keys }
func (e *testEnv) Emit(event entity.Event)        { e.events = append(e.events, event) }
func (e *testEnv) at(height int64, unix int64) {
	e.block = entity.Block{Height: height, Time: time.Unix(unix, 0)}
}

func (e *testEnv) fund(t *testing.T, addr common.Address, amount uint64) {
	t.Helper()
	require.NoError(t, e.bank.Mint(token, addr, uint128.From64(amount)))
	require.NoError(t, e.bank.Mint(common.Address{}, addr, uint128.From64(amount)))
}

func (e *testEnv) balance(addr common.Address) uint128.Uint128 {
	return e.bank.BalanceOf(token, addr)
}

// whitelist creates a credential collection with escrow as the staking contract.
func (e *testEnv) whitelist(t *testing.T, addr common.Address, holders ...common.Address) *eligibility.Collection {
	t.Helper()
	c := eligibility.NewCollection(addr, owner, "WhiteList")
	_, err := c.AddWhitelist(owner, holders)
	require.NoError(t, err)
	_, err = c.MintToWhitelist(owner)
	require.NoError(t, err)
	require.NoError(t, c.SetStaking(owner, escrow))
	for _, holder := range holders {
		c.SetApprovalForAll(holder, escrow, true)
	}
	e.registry[addr] = c
	return c
}

// resolve moves the chain past claim start and resolves the seed of sale.
func (e *testEnv) resolve(t *testing.T, sale *Sale, seed uint64) {
	t.Helper()
	height, ok := sale.SeedRequestHeight()
	require.True(t, ok)
	require.NoError(t, e.oracle.Resolve(height, uint256From(seed)))
}

func rateConfig() Config {
	return Config{
		Name:              "genesis",
		Strategy:          Rate,
		Owner:             owner,
		Quote:             token,
		RatePrice:         uint128.From64(2),
		EvenPrice:         uint128.From64(2),
		PoolSize:          100,
		ShareRate:         100,
		PlatformFeeRate:   25,
		ProtocolFeeRate:   50,
		Launch:            launch,
		Close:             closeAt,
		ClaimStart:        claimStart,
		PaymentRecipient:  recipient,
		TreasuryRecipient: treasury,
	}
}

func evenConfig() Config {
	return Config{
		Name:              "lottery",
		Strategy:          Even,
		Owner:             owner,
		Quote:             token,
		TicketPrice:       uint128.From64(10),
		PoolSize:          10,
		MaxTicket:         5,
		PerTicket:         1,
		PlatformFeeRate:   25,
		Launch:            launch,
		Close:             closeAt,
		ClaimStart:        claimStart,
		PaymentRecipient:  recipient,
		TreasuryRecipient: treasury,
	}
}

func newSale(t *testing.T, config Config) *Sale {
	t.Helper()
	sale, err := NewSale(config, escrow)
	require.NoError(t, err)
	return sale
}

func uint256From(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}
