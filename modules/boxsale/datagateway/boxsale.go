package datagateway

import (
	"context"

	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
)

type BoxSaleDataGateway interface {
	BoxSaleReaderDataGateway
	BoxSaleWriterDataGateway

	// BeginBoxSaleTx returns a new BoxSaleDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginBoxSaleTx(ctx context.Context) (BoxSaleDataGatewayWithTx, error)
}

type BoxSaleDataGatewayWithTx interface {
	BoxSaleDataGateway
	Tx
}

type BoxSaleReaderDataGateway interface {
	// GetLatestCommand returns the last journaled command. Returns errs.NotFound on an empty journal.
	GetLatestCommand(ctx context.Context) (*entity.Command, error)
	// GetCommands returns the journaled commands with a sequence greater than fromSequence, in order.
	GetCommands(ctx context.Context, fromSequence uint64) ([]*entity.Command, error)
	GetEventsByAddress(ctx context.Context, address common.Address, limit int32) ([]*entity.Event, error)
	GetBookingRecords(ctx context.Context, instance string) ([]*entity.BookingRecord, error)
}

type BoxSaleWriterDataGateway interface {
	CreateCommand(ctx context.Context, command entity.Command) error
	CreateEvents(ctx context.Context, events []entity.Event) error
	UpsertBookingRecords(ctx context.Context, records []entity.BookingRecord) error
}
