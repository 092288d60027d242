package randomness

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Draw expands seed into the pseudo random value of a round: keccak256(seed || round).
func Draw(seed *uint256.Int, round uint64) *uint256.Int {
	var buf [40]byte
	seed.WriteToSlice(buf[:32])
	binary.BigEndian.PutUint64(buf[32:], round)
	return new(uint256.Int).SetBytes(crypto.Keccak256(buf[:]))
}

// Permutation returns a seed derived permutation of [0, n) using Fisher-Yates.
// The same seed and n always yield the same order.
func Permutation(seed *uint256.Int, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		bound := uint256.NewInt(uint64(i + 1))
		j := int(new(uint256.Int).Mod(Draw(seed, uint64(i)), bound).Uint64())
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
