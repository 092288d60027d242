package decimals

import (
	"math/big"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

var maxUint128 = decimal.NewFromBigInt(uint128.Max.Big(), 0)

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// PowerOfTen returns 10^n.
func PowerOfTen(n uint16) decimal.Decimal {
	return decimal.New(1, int32(n))
}

// ToDecimal converts an amount in base units to a human readable decimal.
func ToDecimal(amount uint128.Uint128, decimals uint16) decimal.Decimal {
	return decimal.NewFromBigInt(amount.Big(), -int32(decimals))
}

// ToUint128 converts a human readable amount, e.g. "2.5", to base units.
// The amount must be non-negative and must not have more fractional digits than decimals.
func ToUint128(s string, decimals uint16) (uint128.Uint128, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", s)
	}
	return FromDecimal(amount, decimals)
}

// FromDecimal converts a decimal amount to base units.
func FromDecimal(amount decimal.Decimal, decimals uint16) (uint128.Uint128, error) {
	if amount.IsNegative() {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "negative amount %s", amount)
	}
	scaled := amount.Mul(PowerOfTen(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "amount %s has more than %d decimals", amount, decimals)
	}
	if scaled.GreaterThan(maxUint128) {
		return uint128.Zero, errors.Wrapf(errs.OverflowUint128, "amount %s", amount)
	}
	return uint128.FromBig(scaled.BigInt())
}

// MulDiv returns floor(a * num / den) without intermediate overflow.
func MulDiv(a uint128.Uint128, num, den uint128.Uint128) (uint128.Uint128, error) {
	if den.IsZero() {
		return uint128.Zero, errors.Wrap(errs.InvalidArgument, "division by zero")
	}
	result := new(big.Int).Mul(a.Big(), num.Big())
	result.Quo(result, den.Big())
	if result.Cmp(uint128.Max.Big()) > 0 {
		return uint128.Zero, errors.WithStack(errs.OverflowUint128)
	}
	return uint128.FromBig(result)
}

// Permille returns floor(amount * rate / 1000).
func Permille(amount uint128.Uint128, rate uint64) (uint128.Uint128, error) {
	fee, err := MulDiv(amount, uint128.From64(rate), uint128.From64(1000))
	return fee, errors.WithStack(err)
}

// ToUint256 parses a 256-bit unsigned integer in decimal or 0x-prefixed hex form.
func ToUint256(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := uint256.FromHex(s)
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "invalid hex value %q", s)
		}
		return v, nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid decimal value %q", s)
	}
	return v, nil
}
