package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/internal/feed"
	"github.com/gaze-network/boxsale/modules/boxsale/datagateway"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/pkg/logger"
	"github.com/gaze-network/boxsale/pkg/logger/slogx"
	"github.com/samber/lo"
)

const shutdownTimeout = 30 * time.Second

type reply struct {
	result any
	err    error
}

type request struct {
	ctx     context.Context
	command Command
	view    func(state *State) error
	reply   chan reply
}

// Processor is the single writer of the engine state. Commands are applied one at a time on a
// clone of the state. The clone replaces the state only after the command and its events are
// journaled, so a failing command leaves no trace.
type Processor struct {
	dg      datagateway.BoxSaleDataGateway
	clock   Clock
	state   *State
	metrics *processorMetrics
	events  *feed.Feed[[]entity.Event]

	sequence      uint64
	eventSequence uint64
	block         entity.Block

	requests chan *request
	started  atomic.Bool
	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// NewProcessor creates a processor starting from genesis. A nil datagateway disables the journal.
func NewProcessor(dg datagateway.BoxSaleDataGateway, clock Clock, genesis *State) *Processor {
	return &Processor{
		dg:       dg,
		clock:    clock,
		state:    genesis,
		metrics:  Metrics(),
		events:   feed.New[[]entity.Event](),
		requests: make(chan *request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *Processor) Sequence() uint64 {
	return p.sequence
}

// Restore replays the journal on top of the genesis state. It must be called before Run.
func (p *Processor) Restore(ctx context.Context) error {
	if p.dg == nil {
		return nil
	}
	ctx = logger.WithContext(ctx, slog.String("package", "boxsale"), slog.String("stage", "restore"))

	commands, err := p.dg.GetCommands(ctx, p.sequence)
	if err != nil {
		return errors.Wrap(err, "failed to get journaled commands")
	}
	start := time.Now()
	for _, journaled := range commands {
		if journaled.Sequence != p.sequence+1 {
			return errors.Wrapf(errs.ArithmeticInvariant, "journal gap: expected sequence %d, got %d", p.sequence+1, journaled.Sequence)
		}
		cmd, err := DecodeCommand(journaled.Name, journaled.Payload)
		if err != nil {
			return errors.Wrapf(err, "failed to decode command %d", journaled.Sequence)
		}
		block := entity.Block{Height: journaled.BlockHeight, Time: journaled.BlockTime}
		if _, err := p.apply(ctx, cmd, block, false); err != nil {
			return errors.Wrapf(err, "failed to replay command %d (%s)", journaled.Sequence, journaled.Name)
		}
	}
	p.metrics.RecordState(p.sequence, p.state)
	logger.InfoContext(ctx, "Restored state from journal",
		slogx.Int("commands", len(commands)),
		slogx.Uint64("sequence", p.sequence),
		slogx.Int64("height", p.block.Height),
		slogx.Duration("duration", time.Since(start)),
	)
	return nil
}

// Run serves commands until ctx is done or the processor is shut down. It can only run once.
func (p *Processor) Run(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return errors.Wrap(errs.Closed, "processor already started or shut down")
	}
	defer close(p.done)

	ctx = logger.WithContext(ctx, slog.String("package", "boxsale"), slog.String("component", "processor"))
	logger.InfoContext(ctx, "Processor started", slogx.Uint64("sequence", p.sequence))
	for {
		select {
		case <-p.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping processor")
			return nil
		case <-ctx.Done():
			return nil
		case req := <-p.requests:
			if req.view != nil {
				req.reply <- reply{err: req.view(p.state)}
				continue
			}
			result, err := p.handle(ctx, req)
			req.reply <- reply{result: result, err: err}
		}
	}
}

func (p *Processor) handle(ctx context.Context, req *request) (any, error) {
	name := req.command.Name()
	ctx = logger.WithContext(ctx, slog.String("command", name))

	start := time.Now()
	result, err := p.apply(context.WithoutCancel(req.ctx), req.command, p.nextBlock(), true)
	if err != nil {
		p.metrics.RecordCommand(name, "failed", time.Since(start))
		if kind, ok := errs.KindOf(err); ok && kind != errs.ArithmeticInvariant {
			logger.DebugContext(ctx, "Command rejected", slogx.String("kind", string(kind)), slogx.Error(err))
		} else {
			logger.ErrorContext(ctx, "Command failed", err)
		}
		return nil, err
	}
	p.metrics.RecordCommand(name, "ok", time.Since(start))
	p.metrics.RecordState(p.sequence, p.state)
	logger.DebugContext(ctx, "Command applied",
		slogx.Uint64("sequence", p.sequence),
		slogx.Int64("height", p.block.Height),
		slogx.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// nextBlock reads the clock. Height and time never go backwards.
func (p *Processor) nextBlock() entity.Block {
	block := p.clock.Now()
	if block.Height < p.block.Height {
		block.Height = p.block.Height
	}
	if block.Time.Before(p.block.Time) {
		block.Time = p.block.Time
	}
	return block
}

func (p *Processor) apply(ctx context.Context, cmd Command, block entity.Block, journal bool) (any, error) {
	next := p.state.Clone(block)
	result, err := cmd.Apply(next)
	if err != nil {
		return nil, err
	}
	if err := next.VerifyTotals(); err != nil {
		return nil, errors.WithStack(err)
	}

	sequence := p.sequence + 1
	events := next.Events()
	for i := range events {
		events[i].Sequence = p.eventSequence + uint64(i) + 1
		events[i].CommandSeq = sequence
		events[i].BlockHeight = block.Height
		events[i].BlockTime = block.Time
	}

	if journal && p.dg != nil {
		if err := p.journal(ctx, cmd, sequence, block, events, next); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	p.state = next
	p.sequence = sequence
	p.eventSequence += uint64(len(events))
	p.block = block

	if journal && len(events) > 0 {
		if dropped := p.events.Publish(events); dropped > 0 {
			logger.WarnContext(ctx, "Event subscribers are lagging, events dropped",
				slogx.Int("subscribers", dropped),
				slogx.Uint64("sequence", sequence),
			)
		}
	}
	return result, nil
}

// Subscribe delivers the events of every command applied from now on, one slice per command.
// A subscriber that falls behind misses events instead of stalling the processor.
func (p *Processor) Subscribe(ch chan<- []entity.Event) *feed.Subscription[[]entity.Event] {
	return p.events.Subscribe(ch)
}

func (p *Processor) journal(ctx context.Context, cmd Command, sequence uint64, block entity.Block, events []entity.Event, next *State) (err error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to encode command")
	}

	tx, err := p.dg.BeginBoxSaleTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			logger.WarnContext(ctx, "Failed to rollback transaction", slogx.Error(rollbackErr))
		}
	}()

	if err := tx.CreateCommand(ctx, entity.Command{
		Sequence:    sequence,
		Name:        cmd.Name(),
		Payload:     payload,
		BlockHeight: block.Height,
		BlockTime:   block.Time,
	}); err != nil {
		return errors.Wrap(err, "failed to journal command")
	}
	if err := tx.CreateEvents(ctx, events); err != nil {
		return errors.Wrap(err, "failed to journal events")
	}
	records, err := bookingRecords(next, events, block.Height)
	if err != nil {
		return errors.Wrap(err, "failed to snapshot bookings")
	}
	if err := tx.UpsertBookingRecords(ctx, records); err != nil {
		return errors.Wrap(err, "failed to save bookings")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// bookingRecords snapshots every booking of the sales touched by events.
func bookingRecords(state *State, events []entity.Event, height int64) ([]entity.BookingRecord, error) {
	instances := lo.Uniq(lo.FilterMap(events, func(event entity.Event, _ int) (string, bool) {
		_, ok := state.Sales[event.Instance]
		return event.Instance, ok
	}))

	records := make([]entity.BookingRecord, 0)
	for _, instance := range instances {
		for _, booking := range state.Sales[instance].Bookings() {
			refund, err := booking.Refund()
			if err != nil {
				return nil, errors.Wrapf(err, "sale %s", instance)
			}
			records = append(records, entity.BookingRecord{
				Instance:       instance,
				Index:          booking.Index,
				Address:        booking.Address,
				Paid:           booking.Paid,
				Tickets:        booking.Tickets,
				RateAllocated:  booking.RateAllocated,
				EvenAllocated:  booking.EvenAllocated,
				WinningTickets: booking.WinningTickets,
				TotalAllocated: booking.TotalAllocated,
				Refund:         refund,
				Claimed:        booking.Claimed,
				UpdatedHeight:  height,
			})
		}
	}
	return records, nil
}

// Submit applies cmd and waits for its result. Once enqueued the command runs even if ctx is
// canceled while waiting.
func (p *Processor) Submit(ctx context.Context, cmd Command) (any, error) {
	return p.do(ctx, &request{ctx: ctx, command: cmd, reply: make(chan reply, 1)})
}

// View runs fn on the processor goroutine against the current state. fn must not mutate the state.
func (p *Processor) View(ctx context.Context, fn func(state *State) error) error {
	_, err := p.do(ctx, &request{ctx: ctx, view: fn, reply: make(chan reply, 1)})
	return err
}

// Viewer runs read-only functions against the engine state.
type Viewer interface {
	View(ctx context.Context, fn func(state *State) error) error
}

// Query is View with a result.
func Query[T any](ctx context.Context, v Viewer, fn func(state *State) (T, error)) (T, error) {
	var result T
	err := v.View(ctx, func(state *State) (err error) {
		result, err = fn(state)
		return err
	})
	return result, err
}

func (p *Processor) do(ctx context.Context, req *request) (any, error) {
	select {
	case p.requests <- req:
	case <-p.quit:
		return nil, errors.Wrap(errs.Closed, "processor is shut down")
	case <-p.done:
		return nil, errors.Wrap(errs.Closed, "processor is not running")
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}
	select {
	case r := <-req.reply:
		return r.result, r.err
	case <-p.done:
		return nil, errors.Wrap(errs.Closed, "processor stopped")
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}
}

func (p *Processor) Shutdown() error {
	return p.ShutdownWithContext(context.Background())
}

func (p *Processor) ShutdownWithContext(ctx context.Context) (err error) {
	p.quitOnce.Do(func() {
		defer p.events.Close()
		close(p.quit)
		if p.started.CompareAndSwap(false, true) {
			// never started
			close(p.done)
			return
		}
		select {
		case <-p.done:
		case <-time.After(shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "processor shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "processor shutdown context canceled")
		}
	})
	return
}
