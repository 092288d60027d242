package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/subscription"
	"github.com/gofiber/fiber/v2"
)

type saleRequest struct {
	Instance string `params:"instance"`
}

func (r saleRequest) Validate() error {
	return errs.WithPublicMessage(validateInstance(r.Instance), "validation error")
}

type getSaleResult struct {
	Name              string `json:"name"`
	Strategy          string `json:"strategy"`
	Escrow            string `json:"escrow"`
	Quote             string `json:"quote"`
	RatePrice         string `json:"ratePrice"`
	EvenPrice         string `json:"evenPrice"`
	TicketPrice       string `json:"ticketPrice"`
	PoolSize          uint64 `json:"poolSize"`
	ShareRate         uint64 `json:"shareRate"`
	MaxTicket         uint64 `json:"maxTicket"`
	PerTicket         uint64 `json:"perTicket"`
	PlatformFeeRate   uint64 `json:"platformFeeRate"`
	Launch            int64  `json:"launch"`
	Close             int64  `json:"close"`
	ClaimStart        int64  `json:"claimStart"`
	TotalFund         string `json:"totalFund"`
	TotalTickets      uint64 `json:"totalTickets"`
	RateAllocable     uint64 `json:"rateAllocable"`
	EvenAllocable     uint64 `json:"evenAllocable"`
	Distributed       uint64 `json:"distributed"`
	Available         uint64 `json:"available"`
	Bookings          uint64 `json:"bookings"`
	SeedRequestHeight *int64 `json:"seedRequestHeight"`
	SeedReady         bool   `json:"seedReady"`
	Allocated         bool   `json:"allocated"`
}

type getSaleResponse = common.HttpResponse[getSaleResult]

func (h *HttpHandler) GetSale(ctx *fiber.Ctx) error {
	var req saleRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (getSaleResult, error) {
		sale, err := state.Sale(req.Instance)
		if err != nil {
			return getSaleResult{}, err
		}
		config, totals := sale.Config, sale.Totals()
		result := getSaleResult{
			Name:            config.Name,
			Strategy:        config.Strategy.String(),
			Escrow:          sale.Escrow.Hex(),
			Quote:           config.Quote.Hex(),
			RatePrice:       config.RatePrice.String(),
			EvenPrice:       config.EvenPrice.String(),
			TicketPrice:     config.TicketPrice.String(),
			PoolSize:        config.PoolSize,
			ShareRate:       config.ShareRate,
			MaxTicket:       config.MaxTicket,
			PerTicket:       config.PerTicket,
			PlatformFeeRate: config.PlatformFeeRate,
			Launch:          config.Launch,
			Close:           config.Close,
			ClaimStart:      config.ClaimStart,
			TotalFund:       totals.TotalFund.String(),
			TotalTickets:    totals.TotalTickets,
			RateAllocable:   sale.RateAllocable(),
			EvenAllocable:   sale.EvenAllocable(),
			Distributed:     totals.Distributed,
			Available:       totals.Available,
			Bookings:        sale.BookingCount(),
			SeedReady:       sale.IsSeedReady(state),
			Allocated:       sale.Allocated(),
		}
		if height, ok := sale.SeedRequestHeight(); ok {
			result.SeedRequestHeight = &height
		}
		return result, nil
	})
	if err != nil {
		return publicError(err)
	}
	return errors.WithStack(ctx.JSON(getSaleResponse{Result: &result}))
}

type getBookingRequest struct {
	Instance string `params:"instance"`
	Index    uint64 `params:"index"`
}

func (r getBookingRequest) Validate() error {
	var errList []error
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if r.Index == 0 {
		errList = append(errList, errors.New("'index' must be a positive booking index"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getBookingResponse = common.HttpResponse[booking]

func (h *HttpHandler) GetBooking(ctx *fiber.Ctx) error {
	var req getBookingRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (subscription.Booking, error) {
		sale, err := state.Sale(req.Instance)
		if err != nil {
			return subscription.Booking{}, err
		}
		return sale.Booking(req.Index)
	})
	if err != nil {
		return publicError(err)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(mapBooking(result))))
}

type addressRequest struct {
	Instance string `params:"instance"`
	Address  string `params:"address"`
}

func (r addressRequest) Validate() error {
	var errList []error
	if err := validateInstance(r.Instance); err != nil {
		errList = append(errList, err)
	}
	if err := validateAddress("address", r.Address); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getDepositIndexResult struct {
	Index uint64 `json:"index"`
}

func (h *HttpHandler) GetDepositIndex(ctx *fiber.Ctx) error {
	var req addressRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	index, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (uint64, error) {
		sale, err := state.Sale(req.Instance)
		if err != nil {
			return 0, err
		}
		return sale.DepositIndex(common.MustParseAddress(req.Address)), nil
	})
	if err != nil {
		return publicError(err)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(getDepositIndexResult{Index: index})))
}

type getMyWinResult struct {
	booking
	Allocated bool   `json:"allocated"`
	Refund    string `json:"refund"`
}

func (h *HttpHandler) GetMyWin(ctx *fiber.Ctx) error {
	var req addressRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	win, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (subscription.Win, error) {
		sale, err := state.Sale(req.Instance)
		if err != nil {
			return subscription.Win{}, err
		}
		return sale.GetMyWin(common.MustParseAddress(req.Address))
	})
	if err != nil {
		return publicError(err)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(getMyWinResult{
		booking:   mapBooking(win.Booking),
		Allocated: win.Allocated,
		Refund:    win.Refund.String(),
	})))
}

type getLeastFundResult struct {
	Amount string `json:"amount"`
}

func (h *HttpHandler) GetLeastFund(ctx *fiber.Ctx) error {
	var req saleRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	amount, err := engine.Query(ctx.UserContext(), h.engine, func(state *engine.State) (string, error) {
		sale, err := state.Sale(req.Instance)
		if err != nil {
			return "", err
		}
		least, err := sale.GetLeastFund()
		if err != nil {
			return "", err
		}
		return least.String(), nil
	})
	if err != nil {
		return publicError(err)
	}
	return errors.WithStack(ctx.JSON(common.NewHttpResponse(getLeastFundResult{Amount: amount})))
}
