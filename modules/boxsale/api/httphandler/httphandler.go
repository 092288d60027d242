package httphandler

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/datagateway"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
)

// Engine is the command processor the handler reads from and submits to.
type Engine interface {
	engine.Viewer
	Submit(ctx context.Context, cmd engine.Command) (any, error)
}

type HttpHandler struct {
	engine Engine
	dg     datagateway.BoxSaleReaderDataGateway
}

func New(engine Engine, dg datagateway.BoxSaleReaderDataGateway) *HttpHandler {
	return &HttpHandler{
		engine: engine,
		dg:     dg,
	}
}

// publicError exposes domain failures to the caller. Accounting and infrastructure failures stay internal.
func publicError(err error) error {
	kind, ok := errs.KindOf(err)
	if !ok {
		return errors.WithStack(err)
	}
	switch kind {
	case errs.ArithmeticInvariant, errs.Closed, errs.Timeout:
		return errors.WithStack(err)
	}
	return errs.WithPublicMessage(err, "")
}

func validateAddress(field, value string) error {
	if value == "" {
		return errors.Errorf("'%s' is required", field)
	}
	if _, err := common.ParseAddress(value); err != nil {
		return errors.Errorf("'%s' is not a valid address", field)
	}
	return nil
}

func validateInstance(instance string) error {
	if instance == "" {
		return errors.New("'instance' is required")
	}
	return nil
}
