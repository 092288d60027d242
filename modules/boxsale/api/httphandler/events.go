package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

type getEventsRequest struct {
	Address string `params:"address"`
	Limit   int32  `query:"limit"`
}

func (r getEventsRequest) Validate() error {
	var errList []error
	if err := validateAddress("address", r.Address); err != nil {
		errList = append(errList, err)
	}
	if r.Limit < 0 || r.Limit > maxEventLimit {
		errList = append(errList, errors.Errorf("'limit' must be between 1 and %d", maxEventLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type event struct {
	Sequence    uint64            `json:"sequence"`
	Command     uint64            `json:"command"`
	BlockHeight int64             `json:"blockHeight"`
	BlockTime   int64             `json:"blockTime"`
	Instance    string            `json:"instance"`
	Type        string            `json:"type"`
	Address     string            `json:"address"`
	Attributes  map[string]string `json:"attributes"`
}

func (h *HttpHandler) GetEvents(ctx *fiber.Ctx) error {
	var req getEventsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if req.Limit == 0 {
		req.Limit = defaultEventLimit
	}

	events, err := h.dg.GetEventsByAddress(ctx.UserContext(), common.MustParseAddress(req.Address), req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetEventsByAddress")
	}
	result := lo.Map(events, func(e *entity.Event, _ int) event {
		return event{
			Sequence:    e.Sequence,
			Command:     e.CommandSeq,
			BlockHeight: e.BlockHeight,
			BlockTime:   e.BlockTime.Unix(),
			Instance:    e.Instance,
			Type:        e.Type,
			Address:     e.Address.Hex(),
			Attributes:  e.Attributes,
		}
	})
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(result)))
}
