package engine

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/pkg/logger"
	"github.com/gaze-network/boxsale/pkg/logger/slogx"
	"github.com/holiman/uint256"
)

const DefaultResolveInterval = 15 * time.Second

// Resolver plays the randomness oracle for local deployments: it answers every pending request
// of the local oracle with a fresh random seed.
type Resolver struct {
	processor *Processor
	interval  time.Duration
	entropy   io.Reader
}

func NewResolver(processor *Processor, interval time.Duration) *Resolver {
	if interval <= 0 {
		interval = DefaultResolveInterval
	}
	return &Resolver{
		processor: processor,
		interval:  interval,
		entropy:   rand.Reader,
	}
}

func (r *Resolver) Run(ctx context.Context) error {
	ctx = logger.WithContext(ctx, slog.String("package", "boxsale"), slog.String("component", "resolver"))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.ResolvePending(ctx); err != nil {
				if errors.Is(err, errs.Closed) {
					return nil
				}
				logger.ErrorContext(ctx, "Failed to resolve randomness requests", err)
			}
		}
	}
}

// ResolvePending resolves every pending request and returns how many were resolved.
func (r *Resolver) ResolvePending(ctx context.Context) (int, error) {
	pending, err := Query(ctx, r.processor, func(state *State) ([]int64, error) {
		return state.LocalOracle.Pending(), nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list pending requests")
	}

	resolved := 0
	for _, height := range pending {
		seed, err := r.seed()
		if err != nil {
			return resolved, errors.WithStack(err)
		}
		if _, err := r.processor.Submit(ctx, &ResolveSeedCommand{Height: height, Seed: seed.Hex()}); err != nil {
			return resolved, errors.Wrapf(err, "failed to resolve request at height %d", height)
		}
		resolved++
		logger.InfoContext(ctx, "Resolved randomness request", slogx.Int64("height", height))
	}
	return resolved, nil
}

func (r *Resolver) seed() (*uint256.Int, error) {
	var buf [32]byte
	if _, err := io.ReadFull(r.entropy, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read entropy")
	}
	return new(uint256.Int).SetBytes32(buf[:]), nil
}
