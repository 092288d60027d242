package engine

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/modules/boxsale/config"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/stretchr/testify/require"
)

const (
	testLaunch     = int64(1_000)
	testClose      = int64(2_000)
	testClaimStart = int64(3_000)
)

var (
	testOwner = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	testToken = common.HexToAddress("0x00000000000000000000000000000000000000c0")

	alice = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type testClock struct {
	block entity.Block
}

func (c *testClock) Now() entity.Block { return c.block }

func (c *testClock) at(height int64, unix int64) {
	c.block = entity.Block{Height: height, Time: time.Unix(unix, 0)}
}

func testConfig() config.Config {
	return config.Config{
		Owner: testOwner.Hex(),
		MysteryBox: config.MysteryBoxConfig{
			Quote: testToken.Hex(),
			Price: "3",
			Items: []config.ItemConfig{
				{URI: "ipfs://common", Quantity: 80},
				{URI: "ipfs://rare", Quantity: 40},
			},
			DirectSale: 20,
		},
		Sales: []config.SaleConfig{{
			Name:       "genesis",
			Strategy:   "rate",
			Quote:      testToken.Hex(),
			RatePrice:  "2",
			EvenPrice:  "2",
			PoolSize:   100,
			ShareRate:  100,
			Launch:     testLaunch,
			Close:      testClose,
			ClaimStart: testClaimStart,
		}},
		Balances: []config.BalanceConfig{
			{Currency: testToken.Hex(), Account: alice.Hex(), Amount: "1000"},
			{Currency: testToken.Hex(), Account: bob.Hex(), Amount: "1000"},
		},
	}
}

func testGenesis(t *testing.T) *State {
	t.Helper()
	state, err := Bootstrap(testConfig())
	require.NoError(t, err)
	return state
}

// startProcessor runs p until the test ends.
func startProcessor(t *testing.T, p *Processor) {
	t.Helper()
	go func() {
		_ = p.Run(context.Background())
	}()
	t.Cleanup(func() {
		require.NoError(t, p.Shutdown())
	})
}
