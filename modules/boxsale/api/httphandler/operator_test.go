package httphandler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/modules/boxsale/config"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pass = common.MustParseAddress("0x000000000000000000000000000000000000c011")

func withWhitelist(conf *config.Config) {
	conf.Collections = []config.CollectionConfig{{Address: pass.Hex(), Name: "pass", Holders: []string{alice.Hex()}}}
	conf.Sales[0].Whitelist = []config.WhitelistConfig{{Collection: pass.Hex(), Kind: "reusable"}}
}

func TestWhitelistedSaleToItems(t *testing.T) {
	s := newTestServer(t, withWhitelist)
	escrow := engine.EscrowAddress("genesis").Hex()
	stake := `{"address":"` + alice.Hex() + `","amount":"10"}`

	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/stake", stake, nil),
		"credentials can't be consumed before the escrow is approved")

	approval := `{"holder":"` + alice.Hex() + `","operator":"` + escrow + `","approved":true}`
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/credentials/"+pass.Hex()+"/approval", approval, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/stake", stake, nil))

	s.clock.at(20, 2_000)
	var seed common.HttpResponse[requestSeedResult]
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/request-seed",
		`{"caller":"`+alice.Hex()+`","fee":"0"}`, &seed))
	require.Equal(t, int64(20), seed.Result.Height)

	var info getInfoResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/boxsale/v1/info", "", &info))
	assert.Equal(t, []int64{20}, info.Result.PendingSeeds)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/oracle/resolve", `{"height":20,"seed":"0x2a"}`, nil))

	var allocated common.HttpResponse[allocateResult]
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/allocate", "", &allocated))
	assert.Equal(t, 1, allocated.Result.Bookings)
	assert.Equal(t, uint64(5), allocated.Result.Distributed)

	s.clock.at(30, 3_000)
	var claim common.HttpResponse[claimResult]
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/claim",
		`{"address":"`+alice.Hex()+`"}`, &claim))
	assert.Equal(t, uint64(5), claim.Result.Keys)
	assert.Equal(t, "0", claim.Result.Refund)

	claimItems := `{"holder":"` + alice.Hex() + `","instance":"genesis","count":2}`
	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/boxsale/v1/mysterybox/claim-items", claimItems, nil),
		"the box needs approval to burn keys")

	keyApproval := `{"holder":"` + alice.Hex() + `","operator":"` + info.Result.Box + `","approved":true}`
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/keys/approval", keyApproval, nil))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/mysterybox/lockup",
		`{"caller":"`+owner.Hex()+`","lockup":4000}`, nil))
	require.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/boxsale/v1/mysterybox/claim-items", claimItems, nil))

	s.clock.at(40, 4_000)
	var items common.HttpResponse[claimItemsResult]
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/mysterybox/claim-items", claimItems, &items))
	assert.Equal(t, []uint64{0, 1}, items.Result.Ids)

	for _, id := range items.Result.Ids {
		var item common.HttpResponse[getItemResult]
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/boxsale/v1/mysterybox/items/"+strconv.FormatUint(id, 10), "", &item))
		assert.Equal(t, alice.Hex(), item.Result.Owner)
	}
}

func TestSetSaleWhitelist(t *testing.T) {
	s := newTestServer(t, func(conf *config.Config) {
		conf.Collections = []config.CollectionConfig{{Address: pass.Hex(), Name: "pass", Holders: []string{alice.Hex()}}}
	})
	whitelist := `{"caller":"` + owner.Hex() + `","mode":"or","sources":[{"collection":"` + pass.Hex() + `","kind":"one-time"}]}`

	s.clock.at(5, 500)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/whitelist",
		`{"caller":"`+alice.Hex()+`","sources":[]}`, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/whitelist", whitelist, nil))

	s.clock.at(10, 1_500)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/whitelist", whitelist, nil),
		"the whitelist is frozen after launch")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/credentials/"+pass.Hex()+"/approval",
		`{"holder":"`+alice.Hex()+`","operator":"`+engine.EscrowAddress("genesis").Hex()+`","approved":true}`, nil))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/sales/genesis/stake",
		`{"address":"`+alice.Hex()+`","amount":"4"}`, nil), "the escrow can hold credentials of a whitelist set at runtime")
}

func TestOperatorCommands(t *testing.T) {
	s := newTestServer(t)
	bob := common.MustParseAddress("0x0000000000000000000000000000000000000b0b")

	var balance common.HttpResponse[balanceResult]
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boxsale/v1/deposits",
		`{"currency":"`+token.Hex()+`","account":"`+bob.Hex()+`","amount":"50"}`, &balance))
	assert.Equal(t, "50", balance.Result.Balance)

	testCases := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{
			name:   "whitelist of an unknown collection",
			target: "/boxsale/v1/credentials/" + pass.Hex() + "/whitelist",
			body:   `{"caller":"` + owner.Hex() + `","holders":["` + alice.Hex() + `"]}`,
			status: http.StatusNotFound,
		},
		{
			name:   "mint of an unknown collection",
			target: "/boxsale/v1/credentials/" + pass.Hex() + "/mint",
			body:   `{"caller":"` + owner.Hex() + `"}`,
			status: http.StatusNotFound,
		},
		{
			name:   "invalid seed",
			target: "/boxsale/v1/oracle/resolve",
			body:   `{"height":20,"seed":"lucky"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "seed never requested",
			target: "/boxsale/v1/oracle/resolve",
			body:   `{"height":20,"seed":"42"}`,
			status: http.StatusNotFound,
		},
		{
			name:   "allocate before seed",
			target: "/boxsale/v1/sales/genesis/allocate",
			status: http.StatusConflict,
		},
		{
			name:   "lockup by a stranger",
			target: "/boxsale/v1/mysterybox/lockup",
			body:   `{"caller":"` + alice.Hex() + `","lockup":10}`,
			status: http.StatusForbidden,
		},
		{
			name:   "register items after wiring",
			target: "/boxsale/v1/mysterybox/items",
			body:   `{"caller":"` + owner.Hex() + `","uris":["ipfs://late"],"quantities":[1]}`,
			status: http.StatusConflict,
		},
		{
			name:   "key approval without operator",
			target: "/boxsale/v1/keys/approval",
			body:   `{"holder":"` + alice.Hex() + `","approved":true}`,
			status: http.StatusBadRequest,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.status, s.do(t, http.MethodPost, testCase.target, testCase.body, nil))
		})
	}
}
