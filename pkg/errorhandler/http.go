package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/pkg/logger"
	"github.com/gaze-network/boxsale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

var statusCodes = map[errs.ErrorKind]int{
	errs.PhaseError:        http.StatusConflict,
	errs.DoubleClaim:       http.StatusConflict,
	errs.EligibilityError:  http.StatusForbidden,
	errs.Unauthorized:      http.StatusForbidden,
	errs.InsufficientFunds: http.StatusPaymentRequired,
	errs.CapacityError:     http.StatusUnprocessableEntity,
	errs.NotFound:          http.StatusNotFound,
	errs.InvalidArgument:   http.StatusBadRequest,
	errs.OverflowUint128:   http.StatusBadRequest,
}

// StatusCode returns the HTTP status code of a public error.
func StatusCode(err error) int {
	if kind, ok := errs.KindOf(err); ok {
		if code, ok := statusCodes[kind]; ok {
			return code
		}
	}
	return http.StatusBadRequest
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(StatusCode(err)).JSON(map[string]any{
				"error": e.Message(),
				"code":  e.Code(),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).SendString(e.Error()))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"error": "Internal Server Error",
		}))
	}
}
