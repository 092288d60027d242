package subscription

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/uint128"
)

type Strategy uint8

const (
	// Rate allocates items proportionally to the staked amount.
	Rate Strategy = iota + 1
	// Even draws items by ticket.
	Even
)

func (s Strategy) String() string {
	switch s {
	case Rate:
		return "rate"
	case Even:
		return "even"
	}
	return "unknown"
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rate", "proportional":
		return Rate, nil
	case "even", "ticket":
		return Even, nil
	}
	return 0, errors.Wrapf(errs.InvalidArgument, "unknown allocation strategy %q", s)
}

// Config is the immutable setup of a distribution instance. Only the whitelist may change,
// and only before Launch. Times are unix seconds of block time.
type Config struct {
	Name     string
	Strategy Strategy
	Owner    common.Address

	// Quote is the payment currency. The zero address is the native coin.
	Quote       common.Address
	RatePrice   uint128.Uint128
	EvenPrice   uint128.Uint128
	TicketPrice uint128.Uint128

	PoolSize  uint64
	ShareRate uint64 // percent
	MaxTicket uint64
	PerTicket uint64

	PlatformFeeRate uint64 // per-mille of the settled cost
	ProtocolFeeRate uint64 // per-mille, informational; charged by the mystery box on direct sales

	Launch     int64
	Close      int64 // 0 is unbounded
	ClaimStart int64

	PaymentRecipient  common.Address
	TreasuryRecipient common.Address

	Whitelist []eligibility.SourceRef
	Mode      eligibility.Mode
}

func (c Config) Validate() error {
	if c.Name == "" {
		return errors.Wrap(errs.InvalidArgument, "name is required")
	}
	if c.PoolSize == 0 {
		return errors.Wrapf(errs.InvalidArgument, "%s: pool size must be positive", c.Name)
	}
	if c.PlatformFeeRate > 1000 || c.ProtocolFeeRate > 1000 {
		return errors.Wrapf(errs.InvalidArgument, "%s: fee rates are per-mille and can't exceed 1000", c.Name)
	}
	if c.Close != 0 && c.Close <= c.Launch {
		return errors.Wrapf(errs.InvalidArgument, "%s: close must be after launch", c.Name)
	}
	if c.ClaimStart < c.Launch || (c.Close != 0 && c.ClaimStart < c.Close) {
		return errors.Wrapf(errs.InvalidArgument, "%s: claim start must not precede the subscription window", c.Name)
	}
	switch c.Strategy {
	case Rate:
		if c.RatePrice.IsZero() {
			return errors.Wrapf(errs.InvalidArgument, "%s: rate price must be positive", c.Name)
		}
		if c.ShareRate > 100 {
			return errors.Wrapf(errs.InvalidArgument, "%s: share rate is a percentage", c.Name)
		}
	case Even:
		if c.TicketPrice.IsZero() {
			return errors.Wrapf(errs.InvalidArgument, "%s: ticket price must be positive", c.Name)
		}
		if c.PerTicket == 0 {
			return errors.Wrapf(errs.InvalidArgument, "%s: items per ticket must be positive", c.Name)
		}
	default:
		return errors.Wrapf(errs.InvalidArgument, "%s: unknown strategy %d", c.Name, c.Strategy)
	}
	return nil
}

// SeedAvailableAt returns the earliest block time at which randomness may be requested.
func (c Config) SeedAvailableAt() int64 {
	if c.Close == 0 {
		return c.ClaimStart
	}
	return c.Close
}
