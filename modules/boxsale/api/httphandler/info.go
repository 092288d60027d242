package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gofiber/fiber/v2"
)

type getInfoResult struct {
	BlockHeight  int64    `json:"blockHeight"`
	BlockTime    int64    `json:"blockTime"`
	Sales        []string `json:"sales"`
	Box          string   `json:"box"`
	TotalItems   uint64   `json:"totalItems"`
	KeysSold     uint64   `json:"keysSold"`
	KeySupply    uint64   `json:"keySupply"`
	KeyHardCap   uint64   `json:"keyHardCap"`
	Oracle       string   `json:"oracle"`
	OracleFee    string   `json:"oracleFee"`
	PendingSeeds []int64  `json:"pendingSeeds"`
}

type getInfoResponse = common.HttpResponse[getInfoResult]

func (h *HttpHandler) GetInfo(ctx *fiber.Ctx) error {
	result, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (getInfoResult, error) {
		block := state.Block()
		return getInfoResult{
			BlockHeight:  block.Height,
			BlockTime:    block.Unix(),
			Sales:        state.SaleNames(),
			Box:          state.Box.Address.Hex(),
			TotalItems:   state.Box.TotalItems(),
			KeysSold:     state.Box.KeysSold(),
			KeySupply:    state.KeyLedger.TotalSupply(""),
			KeyHardCap:   state.KeyLedger.HardCap(),
			Oracle:       state.LocalOracle.Address().Hex(),
			OracleFee:    state.LocalOracle.Fee().String(),
			PendingSeeds: state.LocalOracle.Pending(),
		}, nil
	})
	if err != nil {
		return errors.Wrap(err, "error during query info")
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(result)))
}
