package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createCommand = `INSERT INTO boxsale_commands ("sequence", "name", "payload", "block_height", "block_time") VALUES ($1, $2, $3, $4, $5)`

func (r *Repository) CreateCommand(ctx context.Context, command entity.Command) error {
	payload := command.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := r.conn().Exec(ctx, createCommand,
		int64(command.Sequence),
		command.Name,
		payload,
		command.BlockHeight,
		timestampFromTime(command.BlockTime),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create command")
	}
	return nil
}

const selectCommands = `SELECT "sequence", "name", "payload", "block_height", "block_time" FROM boxsale_commands`

const getLatestCommand = selectCommands + ` ORDER BY "sequence" DESC LIMIT 1`

func (r *Repository) GetLatestCommand(ctx context.Context) (*entity.Command, error) {
	command, err := scanCommand(r.conn().QueryRow(ctx, getLatestCommand))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return command, nil
}

const getCommands = selectCommands + ` WHERE "sequence" > $1 ORDER BY "sequence" ASC`

func (r *Repository) GetCommands(ctx context.Context, fromSequence uint64) ([]*entity.Command, error) {
	rows, err := r.conn().Query(ctx, getCommands, int64(fromSequence))
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	commands := make([]*entity.Command, 0)
	for rows.Next() {
		command, err := scanCommand(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan command")
		}
		commands = append(commands, command)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return commands, nil
}

func scanCommand(row pgx.Row) (*entity.Command, error) {
	var (
		sequence  int64
		command   entity.Command
		blockTime pgtype.Timestamp
	)
	if err := row.Scan(&sequence, &command.Name, &command.Payload, &command.BlockHeight, &blockTime); err != nil {
		return nil, err
	}
	command.Sequence = uint64(sequence)
	command.BlockTime = blockTime.Time
	return &command, nil
}

const createEvent = `INSERT INTO boxsale_events ("sequence", "command_sequence", "block_height", "block_time", "instance", "type", "address", "attributes") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *Repository) CreateEvents(ctx context.Context, events []entity.Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, event := range events {
		attributes, err := attributesToJSON(event.Attributes)
		if err != nil {
			return errors.WithStack(err)
		}
		batch.Queue(createEvent,
			int64(event.Sequence),
			int64(event.CommandSeq),
			event.BlockHeight,
			timestampFromTime(event.BlockTime),
			event.Instance,
			event.Type,
			event.Address.Hex(),
			attributes,
		)
	}
	if err := r.conn().SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to create events")
	}
	return nil
}

const getEventsByAddress = `SELECT "sequence", "command_sequence", "block_height", "block_time", "instance", "type", "address", "attributes" FROM boxsale_events WHERE "address" = $1 ORDER BY "sequence" DESC LIMIT $2`

func (r *Repository) GetEventsByAddress(ctx context.Context, address common.Address, limit int32) ([]*entity.Event, error) {
	rows, err := r.conn().Query(ctx, getEventsByAddress, address.Hex(), limit)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	events := make([]*entity.Event, 0)
	for rows.Next() {
		var (
			sequence, commandSeq int64
			blockTime            pgtype.Timestamp
			address              string
			attributes           []byte
			event                entity.Event
		)
		if err := rows.Scan(&sequence, &commandSeq, &event.BlockHeight, &blockTime, &event.Instance, &event.Type, &address, &attributes); err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		event.Sequence = uint64(sequence)
		event.CommandSeq = uint64(commandSeq)
		event.BlockTime = blockTime.Time
		event.Address = common.HexToAddress(address)
		event.Attributes, err = attributesFromJSON(attributes)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return events, nil
}

const upsertBooking = `INSERT INTO boxsale_bookings ("instance", "index", "address", "paid", "tickets", "rate_allocated", "even_allocated", "winning_tickets", "total_allocated", "refund", "claimed", "updated_height")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT ("instance", "index") DO UPDATE SET
	"paid" = EXCLUDED."paid",
	"tickets" = EXCLUDED."tickets",
	"rate_allocated" = EXCLUDED."rate_allocated",
	"even_allocated" = EXCLUDED."even_allocated",
	"winning_tickets" = EXCLUDED."winning_tickets",
	"total_allocated" = EXCLUDED."total_allocated",
	"refund" = EXCLUDED."refund",
	"claimed" = EXCLUDED."claimed",
	"updated_height" = EXCLUDED."updated_height"`

func (r *Repository) UpsertBookingRecords(ctx context.Context, records []entity.BookingRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		paid, err := numericFromUint128(record.Paid)
		if err != nil {
			return errors.Wrap(err, "failed to parse paid amount")
		}
		refund, err := numericFromUint128(record.Refund)
		if err != nil {
			return errors.Wrap(err, "failed to parse refund amount")
		}
		batch.Queue(upsertBooking,
			record.Instance,
			int64(record.Index),
			record.Address.Hex(),
			paid,
			int64(record.Tickets),
			int64(record.RateAllocated),
			int64(record.EvenAllocated),
			int64(record.WinningTickets),
			int64(record.TotalAllocated),
			refund,
			record.Claimed,
			record.UpdatedHeight,
		)
	}
	if err := r.conn().SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to upsert bookings")
	}
	return nil
}

const getBookingRecords = `SELECT "instance", "index", "address", "paid", "tickets", "rate_allocated", "even_allocated", "winning_tickets", "total_allocated", "refund", "claimed", "updated_height" FROM boxsale_bookings WHERE "instance" = $1 ORDER BY "index" ASC`

func (r *Repository) GetBookingRecords(ctx context.Context, instance string) ([]*entity.BookingRecord, error) {
	rows, err := r.conn().Query(ctx, getBookingRecords, instance)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	records := make([]*entity.BookingRecord, 0)
	for rows.Next() {
		var (
			record                                         entity.BookingRecord
			index, tickets, rate, even, winning, allocated int64
			address                                        string
			paid, refund                                   pgtype.Numeric
		)
		if err := rows.Scan(&record.Instance, &index, &address, &paid, &tickets, &rate, &even, &winning, &allocated, &refund, &record.Claimed, &record.UpdatedHeight); err != nil {
			return nil, errors.Wrap(err, "failed to scan booking")
		}
		record.Index = uint64(index)
		record.Address = common.HexToAddress(address)
		record.Tickets = uint64(tickets)
		record.RateAllocated = uint64(rate)
		record.EvenAllocated = uint64(even)
		record.WinningTickets = uint64(winning)
		record.TotalAllocated = uint64(allocated)
		if record.Paid, err = uint128FromNumeric(paid); err != nil {
			return nil, errors.Wrap(err, "failed to parse paid amount")
		}
		if record.Refund, err = uint128FromNumeric(refund); err != nil {
			return nil, errors.Wrap(err, "failed to parse refund amount")
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return records, nil
}
