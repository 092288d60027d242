package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/mysterybox"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type bucket struct {
	URI        string `json:"uri"`
	FirstID    uint64 `json:"firstId"`
	Registered uint64 `json:"registered"`
	Remaining  uint64 `json:"remaining"`
}

type getItemsResult struct {
	TotalItems uint64   `json:"totalItems"`
	Lockup     int64    `json:"lockup"`
	Buckets    []bucket `json:"buckets"`
}

func (h *HttpHandler) GetItems(ctx *fiber.Ctx) error {
	result, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (getItemsResult, error) {
		return getItemsResult{
			TotalItems: state.Box.TotalItems(),
			Lockup:     state.Box.Config.Lockup,
			Buckets: lo.Map(state.Box.Buckets(), func(b mysterybox.Bucket, _ int) bucket {
				return bucket{URI: b.URI, FirstID: b.FirstID, Registered: b.Registered, Remaining: b.Remaining}
			}),
		}, nil
	})
	if err != nil {
		return errors.Wrap(err, "error during query items")
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(result)))
}

type getItemRequest struct {
	Id uint64 `params:"id"`
}

type getItemResult struct {
	Id    uint64 `json:"id"`
	Owner string `json:"owner"`
	URI   string `json:"uri"`
}

func (h *HttpHandler) GetItem(ctx *fiber.Ctx) error {
	var req getItemRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errs.WithPublicMessage(errors.Wrap(errs.InvalidArgument, err.Error()), "validation error")
	}

	result, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (getItemResult, error) {
		owner, err := state.Box.OwnerOf(req.Id)
		if err != nil {
			return getItemResult{}, err
		}
		uri, err := state.Box.TokenURI(req.Id)
		if err != nil {
			return getItemResult{}, err
		}
		return getItemResult{Id: req.Id, Owner: owner.Hex(), URI: uri}, nil
	})
	if err != nil {
		return publicError(err)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(result)))
}

type getRangeResult struct {
	Instance string `json:"instance"`
	Kind     string `json:"kind"`
	Lo       uint64 `json:"lo"`
	Hi       uint64 `json:"hi"`
	Left     uint64 `json:"left"`
}

func (h *HttpHandler) GetRange(ctx *fiber.Ctx) error {
	var req saleRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	r, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (mysterybox.Range, error) {
		return state.Box.RangeOf(req.Instance)
	})
	if err != nil {
		return publicError(err)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(getRangeResult{
		Instance: r.Instance,
		Kind:     r.Kind.String(),
		Lo:       r.Lo,
		Hi:       r.Hi,
		Left:     r.Left(),
	})))
}

type claimItemsRequest struct {
	Holder    string `json:"holder"`
	Recipient string `json:"recipient"`
	Instance  string `json:"instance"`
	Count     uint64 `json:"count"`
}

func (r claimItemsRequest) Validate() error {
	var errList []error
	if err := validateAddress("holder", r.Holder); err != nil {
		errList = append(errList, err)
	}
	if r.Recipient != "" {
		if err := validateAddress("recipient", r.Recipient); err != nil {
			errList = append(errList, err)
		}
	}
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if r.Count == 0 {
		errList = append(errList, errors.New("'count' must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type claimItemsResult struct {
	Ids []uint64 `json:"ids"`
}

func (h *HttpHandler) ClaimItems(ctx *fiber.Ctx) error {
	var req claimItemsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	cmd := &engine.ClaimItemsCommand{
		Holder:   common.MustParseAddress(req.Holder),
		Instance: req.Instance,
		Count:    req.Count,
	}
	if req.Recipient != "" {
		cmd.Recipient = common.MustParseAddress(req.Recipient)
	}
	result, err := h.engine.Submit(ctx.UserContext(), cmd)
	if err != nil {
		return publicError(err)
	}
	ids, _ := result.([]uint64)
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(claimItemsResult{Ids: ids})))
}

type buyKeysRequest struct {
	Buyer string `json:"buyer"`
	Count uint64 `json:"count"`
	Value string `json:"value"`
}

func (r buyKeysRequest) Validate() error {
	var errList []error
	if err := validateAddress("buyer", r.Buyer); err != nil {
		errList = append(errList, err)
	}
	if r.Count == 0 {
		errList = append(errList, errors.New("'count' must be positive"))
	}
	if _, err := decimals.ToUint128(r.Value, 0); err != nil {
		errList = append(errList, errors.New("'value' must be a base unit integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type buyKeysResult struct {
	Fee string `json:"fee"`
}

func (h *HttpHandler) BuyKeys(ctx *fiber.Ctx) error {
	var req buyKeysRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.engine.Submit(ctx.UserContext(), &engine.BuyKeysCommand{
		Buyer: common.MustParseAddress(req.Buyer),
		Count: req.Count,
		Value: req.Value,
	})
	if err != nil {
		return publicError(err)
	}
	fee, ok := result.(uint128.Uint128)
	if !ok {
		return errors.Errorf("unexpected buy keys result %T", result)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(buyKeysResult{Fee: fee.String()})))
}
