package common

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/boxsale/common/errs"
)

// Address is a 20-byte account identifier on the hosting ledger.
type Address = common.Address

// NativeCurrency is the quote currency sentinel for the ledger's native coin.
// Any other address identifies a fungible token.
var NativeCurrency = Address{}

// ParseAddress parses a hex encoded address, with or without the 0x prefix.
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return Address{}, errors.Wrapf(errs.InvalidArgument, "invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// MustParseAddress is like ParseAddress but panics on invalid input.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// DeriveAddress returns a deterministic account address for an engine-owned
// account, e.g. the escrow of a distribution instance.
func DeriveAddress(namespace, name string) Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(namespace), []byte{0}, []byte(name))[12:])
}
