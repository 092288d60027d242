package mysterybox

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gaze-network/uint128"
)

// RegisterItems adds item buckets to the catalog. Registration closes once any range is wired.
func (b *Box) RegisterItems(env Env, caller common.Address, uris []string, quantities []uint64) error {
	if caller != b.Config.Owner {
		return errors.Wrap(errs.Unauthorized, "only the box owner can register items")
	}
	if len(b.ranges) > 0 {
		return errors.Wrap(errs.PhaseError, "items can't be registered after ranges are wired")
	}
	if len(uris) != len(quantities) {
		return errors.Wrapf(errs.InvalidArgument, "%d uris for %d quantities", len(uris), len(quantities))
	}
	total := b.total
	buckets := make([]Bucket, 0, len(uris))
	for i, uri := range uris {
		if quantities[i] == 0 {
			return errors.Wrapf(errs.InvalidArgument, "quantity of %q must be positive", uri)
		}
		buckets = append(buckets, Bucket{
			URI:        uri,
			Registered: quantities[i],
			Remaining:  quantities[i],
			FirstID:    total,
		})
		total += quantities[i]
	}
	b.buckets = append(b.buckets, buckets...)
	added := total - b.total
	b.total = total
	b.emit(env, b.Config.Name, entity.EventItemsRegistered, caller, map[string]string{
		"buckets": strconv.Itoa(len(buckets)),
		"items":   strconv.FormatUint(added, 10),
		"total":   strconv.FormatUint(total, 10),
	})
	return nil
}

// Wire reserves the next amount item ids for instance.
func (b *Box) Wire(env Env, instance string, kind RangeKind, amount uint64) (Range, error) {
	if _, ok := b.ranges[instance]; ok {
		return Range{}, errors.Wrapf(errs.InvalidArgument, "%s is already wired", instance)
	}
	if amount == 0 {
		return Range{}, errors.Wrapf(errs.InvalidArgument, "%s must be wired to at least one item", instance)
	}
	if left := b.total - b.wired; amount > left {
		return Range{}, errors.Wrapf(errs.CapacityError, "%s needs %d items, %d left in the catalog", instance, amount, left)
	}
	r := &Range{
		Instance: instance,
		Kind:     kind,
		Lo:       b.wired,
		Hi:       b.wired + amount - 1,
		Next:     b.wired,
	}
	b.ranges[instance] = r
	b.wired += amount
	b.emit(env, instance, entity.EventRangeWired, b.Address, map[string]string{
		"kind": kind.String(),
		"lo":   strconv.FormatUint(r.Lo, 10),
		"hi":   strconv.FormatUint(r.Hi, 10),
	})
	return *r, nil
}

func (b *Box) RangeOf(instance string) (Range, error) {
	r, ok := b.ranges[instance]
	if !ok {
		return Range{}, errors.Wrapf(errs.NotFound, "%s is not wired", instance)
	}
	return *r, nil
}

func (b *Box) SetLockup(env Env, caller common.Address, lockup int64) error {
	if caller != b.Config.Owner {
		return errors.Wrap(errs.Unauthorized, "only the box owner can set the lockup")
	}
	b.Config.Lockup = lockup
	b.emit(env, b.Config.Name, entity.EventLockupSet, caller, map[string]string{
		"lockup": strconv.FormatInt(lockup, 10),
	})
	return nil
}

// ClaimItems burns count keys of instance held by holder and hands the next count item ids of
// the instance range to recipient. The holder must have approved the box on the key ledger.
func (b *Box) ClaimItems(env Env, holder, recipient common.Address, instance string, count uint64) ([]uint64, error) {
	if now := env.Block().Unix(); now < b.Config.Lockup {
		return nil, errors.Wrapf(errs.PhaseError, "not yet revealed, items unlock at %d", b.Config.Lockup)
	}
	r, ok := b.ranges[instance]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "%s is not wired", instance)
	}
	if count == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "must claim at least one item")
	}
	if left := r.Left(); count > left {
		return nil, errors.Wrapf(errs.CapacityError, "%s has %d items left, %d requested", instance, left, count)
	}
	issuer := env.Keys()
	if !issuer.IsApprovedForAll(holder, b.Address) {
		return nil, errors.Wrapf(errs.EligibilityError, "%s did not approve the box to redeem its keys", holder)
	}
	if err := issuer.Burn(b.Address, holder, instance, count); err != nil {
		return nil, errors.Wrapf(err, "can't redeem %d %s keys", count, instance)
	}

	ids := make([]uint64, 0, count)
	for range count {
		id := r.Next
		bucket, ok := b.bucketOf(id)
		if !ok || bucket.Remaining == 0 {
			return nil, errors.Wrapf(errs.ArithmeticInvariant, "item %d is outside the catalog", id)
		}
		bucket.Remaining--
		b.owners[id] = recipient
		ids = append(ids, id)
		r.Next++
	}
	b.emit(env, instance, entity.EventItemsClaimed, recipient, map[string]string{
		"holder": holder.Hex(),
		"count":  strconv.FormatUint(count, 10),
		"first":  strconv.FormatUint(ids[0], 10),
		"last":   strconv.FormatUint(ids[len(ids)-1], 10),
	})
	return ids, nil
}

// BuyKeys sells count keys of the direct range at the box price. The protocol fee goes to the
// treasury, the rest to the payment recipient.
func (b *Box) BuyKeys(env Env, buyer common.Address, count uint64, value uint128.Uint128) (uint128.Uint128, error) {
	if now := env.Block().Unix(); now < b.Config.Launch {
		return uint128.Zero, errors.Wrapf(errs.PhaseError, "key sale starts at %d", b.Config.Launch)
	}
	r, ok := b.ranges[DirectSale]
	if !ok {
		return uint128.Zero, errors.Wrap(errs.NotFound, "the box has no direct sale")
	}
	if count == 0 {
		return uint128.Zero, errors.Wrap(errs.CapacityError, "must buy at least one key")
	}
	if left := r.Size() - b.keysSold; count > left {
		return uint128.Zero, errors.Wrapf(errs.CapacityError, "%d keys left, %d requested", left, count)
	}
	price, overflow := b.Config.Price.MulOverflow(uint128.From64(count))
	if overflow {
		return uint128.Zero, errors.Wrap(errs.OverflowUint128, "key payment overflows")
	}
	if !value.Equals(price) {
		return uint128.Zero, errors.Wrapf(errs.InsufficientFunds, "%d keys cost %s, got %s", count, price, value)
	}
	fee, err := decimals.Permille(value, b.Config.ProtocolFeeRate)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "can't compute protocol fee")
	}

	payments := env.Payments()
	if balance := payments.BalanceOf(b.Config.Quote, buyer); balance.Cmp(value) < 0 {
		return uint128.Zero, errors.Wrapf(errs.InsufficientFunds, "%s has %s, needs %s", buyer, balance, value)
	}
	if err := payments.Transfer(b.Config.Quote, buyer, b.Config.TreasuryRecipient, fee); err != nil {
		return uint128.Zero, errors.Wrap(err, "can't pay the protocol fee")
	}
	if err := payments.Transfer(b.Config.Quote, buyer, b.Config.PaymentRecipient, value.Sub(fee)); err != nil {
		return uint128.Zero, errors.Wrap(err, "can't pay for keys")
	}
	if err := env.Keys().Mint(b.Address, buyer, DirectSale, count); err != nil {
		return uint128.Zero, errors.Wrapf(err, "can't issue %d keys", count)
	}
	b.keysSold += count
	b.emit(env, DirectSale, entity.EventKeysBought, buyer, map[string]string{
		"count": strconv.FormatUint(count, 10),
		"value": value.String(),
		"fee":   fee.String(),
	})
	return fee, nil
}

func (b *Box) OwnerOf(id uint64) (common.Address, error) {
	owner, ok := b.owners[id]
	if !ok {
		return common.Address{}, errors.Wrapf(errs.NotFound, "item %d is not claimed", id)
	}
	return owner, nil
}

func (b *Box) TokenURI(id uint64) (string, error) {
	if _, ok := b.owners[id]; !ok {
		return "", errors.Wrapf(errs.NotFound, "item %d is not claimed", id)
	}
	bucket, ok := b.bucketOf(id)
	if !ok {
		return "", errors.Wrapf(errs.NotFound, "item %d", id)
	}
	return bucket.URI, nil
}
