// Package mysterybox is the item catalog keys are redeemed against.
package mysterybox

import (
	"cmp"
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/keys"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/payment"
	"github.com/gaze-network/uint128"
)

// DirectSale is the key class of keys sold by the box itself.
const DirectSale = "direct"

type Env interface {
	Block() entity.Block
	Payments() payment.Ledger
	Keys() keys.Issuer
	Emit(event entity.Event)
}

type Config struct {
	Name              string
	Owner             common.Address
	Quote             common.Address
	Price             uint128.Uint128
	ProtocolFeeRate   uint64 // per-mille of direct key sales
	Launch            int64
	Lockup            int64
	PaymentRecipient  common.Address
	TreasuryRecipient common.Address
}

func (c Config) Validate() error {
	if c.ProtocolFeeRate > 1000 {
		return errors.Wrap(errs.InvalidArgument, "protocol fee rate is per-mille and can't exceed 1000")
	}
	return nil
}

// Bucket is a run of items sharing one URI. Bucket ids are contiguous.
type Bucket struct {
	URI        string
	Registered uint64
	Remaining  uint64
	FirstID    uint64
}

type RangeKind uint8

const (
	Subscription RangeKind = iota + 1
	Direct
)

func (k RangeKind) String() string {
	if k == Direct {
		return "direct"
	}
	return "subscription"
}

// Range is the slice [Lo, Hi] of the item id space redeemable with keys of one instance.
type Range struct {
	Instance string
	Kind     RangeKind
	Lo       uint64
	Hi       uint64
	Next     uint64
}

func (r Range) Size() uint64 {
	return r.Hi - r.Lo + 1
}

// Left returns how many ids of the range are not redeemed yet.
func (r Range) Left() uint64 {
	return r.Hi + 1 - r.Next
}

type Box struct {
	Config  Config
	Address common.Address

	buckets  []Bucket
	total    uint64
	ranges   map[string]*Range
	wired    uint64
	owners   map[uint64]common.Address
	keysSold uint64
}

func New(config Config, address common.Address) (*Box, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Box{
		Config:  config,
		Address: address,
		ranges:  make(map[string]*Range),
		owners:  make(map[uint64]common.Address),
	}, nil
}

func (b *Box) TotalItems() uint64 {
	return b.total
}

func (b *Box) Buckets() []Bucket {
	return append([]Bucket(nil), b.buckets...)
}

// Ranges returns every wired range in id order.
func (b *Box) Ranges() []Range {
	ranges := make([]Range, 0, len(b.ranges))
	for _, r := range b.ranges {
		ranges = append(ranges, *r)
	}
	slices.SortFunc(ranges, func(a, b Range) int { return cmp.Compare(a.Lo, b.Lo) })
	return ranges
}

func (b *Box) KeysSold() uint64 {
	return b.keysSold
}

func (b *Box) Clone() *Box {
	clone := *b
	clone.buckets = append([]Bucket(nil), b.buckets...)
	clone.ranges = make(map[string]*Range, len(b.ranges))
	for instance, r := range b.ranges {
		rng := *r
		clone.ranges[instance] = &rng
	}
	clone.owners = maps.Clone(b.owners)
	return &clone
}

func (b *Box) bucketOf(id uint64) (*Bucket, bool) {
	for i := range b.buckets {
		bucket := &b.buckets[i]
		if id >= bucket.FirstID && id < bucket.FirstID+bucket.Registered {
			return bucket, true
		}
	}
	return nil, false
}

func (b *Box) emit(env Env, instance, eventType string, addr common.Address, attrs map[string]string) {
	env.Emit(entity.Event{
		Instance:   instance,
		Type:       eventType,
		Address:    addr,
		Attributes: attrs,
	})
}
