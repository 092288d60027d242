package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/subscription"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gofiber/fiber/v2"
)

// The command API is an operator surface. Callers are trusted to act for the addresses they name.

type amountRequest struct {
	Instance string `params:"instance"`
	Address  string `json:"address"`
	Amount   string `json:"amount"`
}

func (r amountRequest) Validate() error {
	var errList []error
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("address", r.Address); err != nil {
		errList = append(errList, err)
	}
	if _, err := decimals.ToUint128(r.Amount, 0); err != nil {
		errList = append(errList, errors.New("'amount' must be a base unit integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func parseBody[T interface{ Validate() error }](ctx *fiber.Ctx, req *T) error {
	if err := ctx.ParamsParser(req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(req); err != nil {
		return errs.WithPublicMessage(errors.Wrap(errs.InvalidArgument, err.Error()), "invalid body")
	}
	return errors.WithStack((*req).Validate())
}

func (h *HttpHandler) submitBooking(ctx *fiber.Ctx, cmd engine.Command) error {
	result, err := h.engine.Submit(ctx.UserContext(), cmd)
	if err != nil {
		return publicError(err)
	}
	b, ok := result.(subscription.Booking)
	if !ok {
		return errors.Errorf("unexpected %s result %T", cmd.Name(), result)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(mapBooking(b))))
}

func (h *HttpHandler) Stake(ctx *fiber.Ctx) error {
	var req amountRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return h.submitBooking(ctx, &engine.StakeCommand{
		Instance: req.Instance,
		Address:  common.MustParseAddress(req.Address),
		Amount:   req.Amount,
	})
}

func (h *HttpHandler) Unstake(ctx *fiber.Ctx) error {
	var req amountRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return h.submitBooking(ctx, &engine.UnstakeCommand{
		Instance: req.Instance,
		Address:  common.MustParseAddress(req.Address),
		Amount:   req.Amount,
	})
}

type buyTicketRequest struct {
	Instance string `params:"instance"`
	Address  string `json:"address"`
	Count    uint64 `json:"count"`
	Value    string `json:"value"`
}

func (r buyTicketRequest) Validate() error {
	var errList []error
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("address", r.Address); err != nil {
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

func (h *HttpHandler) BuyTicket(ctx *fiber.Ctx) error {
	var req buyTicketRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return h.submitBooking(ctx, &engine.BuyTicketCommand{
		Instance: req.Instance,
		Address:  common.MustParseAddress(req.Address),
		Count:    req.Count,
		Value:    req.Value,
	})
}

type requestSeedRequest struct {
	Instance string `params:"instance"`
	Caller   string `json:"caller"`
	Fee      string `json:"fee"`
}

func (r requestSeedRequest) Validate() error {
	var errList []error
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("caller", r.Caller); err != nil {
		errList = append(errList, err)
	}
	if _, err := decimals.ToUint128(r.Fee, 0); err != nil {
		errList = append(errList, errors.New("'fee' must be a base unit integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type requestSeedResult struct {
	Height int64 `json:"height"`
}

func (h *HttpHandler) RequestSeed(ctx *fiber.Ctx) error {
	var req requestSeedRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.engine.Submit(ctx.UserContext(), &engine.RequestSeedCommand{
		Instance: req.Instance,
		Caller:   common.MustParseAddress(req.Caller),
		Fee:      req.Fee,
	})
	if err != nil {
		return publicError(err)
	}
	height, _ := result.(int64)
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(requestSeedResult{Height: height})))
}

type claimRequest struct {
	Instance string `params:"instance"`
	Address  string `json:"address"`
}

func (r claimRequest) Validate() error {
	var errList []error
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("address", r.Address); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type claimResult struct {
	Index       uint64 `json:"index"`
	Refund      string `json:"refund"`
	Cost        string `json:"cost"`
	PlatformFee string `json:"platformFee"`
	Keys        uint64 `json:"keys"`
}

func (h *HttpHandler) Claim(ctx *fiber.Ctx) error {
	var req claimRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.engine.Submit(ctx.UserContext(), &engine.ClaimCommand{
		Instance: req.Instance,
		Address:  common.MustParseAddress(req.Address),
	})
	if err != nil {
		return publicError(err)
	}
	settlement, ok := result.(subscription.Settlement)
	if !ok {
		return errors.Errorf("unexpected claim result %T", result)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(claimResult{
		Index:       settlement.Index,
		Refund:      settlement.Refund.String(),
		Cost:        settlement.Cost.String(),
		PlatformFee: settlement.PlatformFee.String(),
		Keys:        settlement.Keys,
	})))
}
