package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/allocation"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// submit runs cmd and responds with the result mapped by fn.
func submit[T any](h *HttpHandler, ctx *fiber.Ctx, cmd engine.Command, fn func(result any) (T, error)) error {
	result, err := h.engine.Submit(ctx.UserContext(), cmd)
	if err != nil {
		return publicError(err)
	}
	response, err := fn(result)
	if err != nil {
		return errors.Wrapf(err, "unexpected %s result", cmd.Name())
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(response)))
}

func noResult(any) (struct{}, error) {
	return struct{}{}, nil
}

type depositRequest struct {
	Currency string `json:"currency"`
	Account  string `json:"account"`
	Amount   string `json:"amount"`
}

func (r depositRequest) Validate() error {
	var errList []error
	if err := validateAddress("currency", r.Currency); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("account", r.Account); err != nil {
		errList = append(errList, err)
	}
	if _, err := decimals.ToUint128(r.Amount, 0); err != nil {
		errList = append(errList, errors.New("'amount' must be a base unit integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type balanceResult struct {
	Balance string `json:"balance"`
}

func (h *HttpHandler) Deposit(ctx *fiber.Ctx) error {
	var req depositRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.DepositCommand{
		Currency: common.MustParseAddress(req.Currency),
		Account:  common.MustParseAddress(req.Account),
		Amount:   req.Amount,
	}, func(result any) (balanceResult, error) {
		balance, ok := result.(uint128.Uint128)
		if !ok {
			return balanceResult{}, errors.Errorf("got %T", result)
		}
		return balanceResult{Balance: balance.String()}, nil
	})
}

type collectionWhitelistRequest struct {
	Collection string   `params:"collection"`
	Caller     string   `json:"caller"`
	Holders    []string `json:"holders"`
}

func (r collectionWhitelistRequest) Validate() error {
	var errList []error
	if err := validateAddress("collection", r.Collection); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("caller", r.Caller); err != nil {
		errList = append(errList, err)
	}
	if len(r.Holders) == 0 {
		errList = append(errList, errors.New("'holders' is required"))
	}
	for _, holder := range r.Holders {
		if err := validateAddress("holders", holder); err != nil {
			errList = append(errList, err)
			break
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type countResult struct {
	Count uint64 `json:"count"`
}

func (h *HttpHandler) AddCollectionWhitelist(ctx *fiber.Ctx) error {
	var req collectionWhitelistRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.AddWhitelistCommand{
		Collection: common.MustParseAddress(req.Collection),
		Caller:     common.MustParseAddress(req.Caller),
		Holders:    lo.Map(req.Holders, func(holder string, _ int) common.Address { return common.MustParseAddress(holder) }),
	}, func(result any) (countResult, error) {
		added, ok := result.(int)
		if !ok {
			return countResult{}, errors.Errorf("got %T", result)
		}
		return countResult{Count: uint64(added)}, nil
	})
}

type mintCredentialsRequest struct {
	Collection string `params:"collection"`
	Caller     string `json:"caller"`
}

func (r mintCredentialsRequest) Validate() error {
	var errList []error
	if err := validateAddress("collection", r.Collection); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("caller", r.Caller); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) MintCredentials(ctx *fiber.Ctx) error {
	var req mintCredentialsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.MintCredentialsCommand{
		Collection: common.MustParseAddress(req.Collection),
		Caller:     common.MustParseAddress(req.Caller),
	}, func(result any) (countResult, error) {
		minted, ok := result.(uint64)
		if !ok {
			return countResult{}, errors.Errorf("got %T", result)
		}
		return countResult{Count: minted}, nil
	})
}

// approvalRequest grants or revokes an operator, e.g. a sale escrow for credentials or the box for keys.
type approvalRequest struct {
	Collection string `params:"collection"`
	Holder     string `json:"holder"`
	Operator   string `json:"operator"`
	Approved   bool   `json:"approved"`
}

func (r approvalRequest) Validate() error {
	var errList []error
	if err := validateAddress("holder", r.Holder); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("operator", r.Operator); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) SetCredentialApproval(ctx *fiber.Ctx) error {
	var req approvalRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := validateAddress("collection", req.Collection); err != nil {
		return errs.WithPublicMessage(err, "validation error")
	}
	return submit(h, ctx, &engine.SetCredentialApprovalCommand{
		Collection: common.MustParseAddress(req.Collection),
		Holder:     common.MustParseAddress(req.Holder),
		Operator:   common.MustParseAddress(req.Operator),
		Approved:   req.Approved,
	}, noResult)
}

func (h *HttpHandler) SetKeyApproval(ctx *fiber.Ctx) error {
	var req approvalRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.SetKeyApprovalCommand{
		Holder:   common.MustParseAddress(req.Holder),
		Operator: common.MustParseAddress(req.Operator),
		Approved: req.Approved,
	}, noResult)
}

type resolveSeedRequest struct {
	Height int64  `json:"height"`
	Seed   string `json:"seed"`
}

func (r resolveSeedRequest) Validate() error {
	var errList []error
	if r.Height <= 0 {
		errList = append(errList, errors.New("'height' must be positive"))
	}
	if _, err := decimals.ToUint256(r.Seed); err != nil {
		errList = append(errList, errors.New("'seed' must be a decimal or 0x hex 256-bit integer"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// ResolveSeed is the oracle callback. Deployments without auto resolve deliver seeds here.
func (h *HttpHandler) ResolveSeed(ctx *fiber.Ctx) error {
	var req resolveSeedRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.ResolveSeedCommand{Height: req.Height, Seed: req.Seed}, noResult)
}

type whitelistSource struct {
	Collection string `json:"collection"`
	Kind       string `json:"kind"`
}

type saleWhitelistRequest struct {
	Instance string            `params:"instance"`
	Caller   string            `json:"caller"`
	Sources  []whitelistSource `json:"sources"`
	Mode     string            `json:"mode"`
}

func (r saleWhitelistRequest) Validate() error {
	var errList []error
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("caller", r.Caller); err != nil {
		errList = append(errList, err)
	}
	if _, err := eligibility.ParseMode(r.Mode); err != nil {
		errList = append(errList, errors.New("'mode' must be AND or OR"))
	}
	for _, source := range r.Sources {
		if err := validateAddress("sources.collection", source.Collection); err != nil {
			errList = append(errList, err)
		}
		if _, err := eligibility.ParseKind(source.Kind); err != nil {
			errList = append(errList, errors.Errorf("'sources.kind' %q is unknown", source.Kind))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) SetSaleWhitelist(ctx *fiber.Ctx) error {
	var req saleWhitelistRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.SetWhitelistCommand{
		Instance: req.Instance,
		Caller:   common.MustParseAddress(req.Caller),
		Sources: lo.Map(req.Sources, func(source whitelistSource, _ int) engine.WhitelistSource {
			return engine.WhitelistSource{Collection: common.MustParseAddress(source.Collection), Kind: source.Kind}
		}),
		Mode: req.Mode,
	}, noResult)
}

type allocateResult struct {
	Bookings    int    `json:"bookings"`
	Distributed uint64 `json:"distributed"`
}

func (h *HttpHandler) Allocate(ctx *fiber.Ctx) error {
	var req saleRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	return submit(h, ctx, &engine.AllocateCommand{Instance: req.Instance}, func(result any) (allocateResult, error) {
		r, ok := result.(allocation.Result)
		if !ok {
			return allocateResult{}, errors.Errorf("got %T", result)
		}
		return allocateResult{Bookings: len(r.Awards), Distributed: r.Distributed}, nil
	})
}

type lockupRequest struct {
	Caller string `json:"caller"`
	Lockup int64  `json:"lockup"`
}

func (r lockupRequest) Validate() error {
	var errList []error
	if err := validateAddress("caller", r.Caller); err != nil {
		errList = append(errList, err)
	}
	if r.Lockup < 0 {
		errList = append(errList, errors.New("'lockup' must not be negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) SetLockup(ctx *fiber.Ctx) error {
	var req lockupRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.SetLockupCommand{
		Caller: common.MustParseAddress(req.Caller),
		Lockup: req.Lockup,
	}, noResult)
}

type registerItemsRequest struct {
	Caller     string   `json:"caller"`
	URIs       []string `json:"uris"`
	Quantities []uint64 `json:"quantities"`
}

func (r registerItemsRequest) Validate() error {
	var errList []error
	if err := validateAddress("caller", r.Caller); err != nil {
		errList = append(errList, err)
	}
	if len(r.URIs) == 0 || len(r.URIs) != len(r.Quantities) {
		errList = append(errList, errors.New("'uris' and 'quantities' must be non-empty and of equal length"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type registerItemsResult struct {
	TotalItems uint64 `json:"totalItems"`
}

func (h *HttpHandler) RegisterItems(ctx *fiber.Ctx) error {
	var req registerItemsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return submit(h, ctx, &engine.RegisterItemsCommand{
		Caller:     common.MustParseAddress(req.Caller),
		URIs:       req.URIs,
		Quantities: req.Quantities,
	}, func(result any) (registerItemsResult, error) {
		total, ok := result.(uint64)
		if !ok {
			return registerItemsResult{}, errors.Errorf("got %T", result)
		}
		return registerItemsResult{TotalItems: total}, nil
	})
}
