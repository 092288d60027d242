package randomness

import (
	"slices"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermutation(t *testing.T) {
	seed := uint256.NewInt(0xdeadbeef)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Permutation(seed, 100), Permutation(seed.Clone(), 100))
	})
	t.Run("is_a_permutation", func(t *testing.T) {
		for _, n := range []int{0, 1, 2, 7, 64, 257} {
			perm := Permutation(seed, n)
			sorted := slices.Clone(perm)
			slices.Sort(sorted)
			for i := range sorted {
				require.Equal(t, i, sorted[i])
			}
			require.Len(t, perm, n)
		}
	})
	t.Run("depends_on_seed", func(t *testing.T) {
		assert.NotEqual(t, Permutation(uint256.NewInt(1), 50), Permutation(uint256.NewInt(2), 50))
	})
}

func TestBinding(t *testing.T) {
	oracle := NewLocalOracle(common.HexToAddress("0x0000000000000000000000000000000000000042"), uint128.From64(100))
	require.NoError(t, oracle.Request(10))

	binding := NewBinding(10)
	assert.False(t, binding.Poll(oracle))
	_, ok := binding.Seed()
	assert.False(t, ok)
	assert.Equal(t, Pending, binding.Status)

	require.NoError(t, oracle.Resolve(10, uint256.NewInt(7)))
	assert.True(t, binding.Poll(oracle))
	seed, ok := binding.Seed()
	require.True(t, ok)
	assert.Equal(t, uint64(7), seed.Uint64())
	assert.Equal(t, Ready, binding.Status)
}

func TestLocalOracle(t *testing.T) {
	oracle := NewLocalOracle(common.Address{}, uint128.Zero)

	err := oracle.Resolve(5, uint256.NewInt(1))
	assert.ErrorIs(t, err, errs.NotFound)

	require.NoError(t, oracle.Request(5))
	require.NoError(t, oracle.Request(3))
	require.NoError(t, oracle.Request(5))
	assert.Equal(t, []int64{3, 5}, oracle.Pending())

	clone := oracle.Clone()
	require.NoError(t, oracle.Resolve(5, uint256.NewInt(1)))
	assert.Equal(t, []int64{3}, oracle.Pending())
	assert.Equal(t, []int64{3, 5}, clone.Pending(), "clone must not observe later resolutions")

	err = oracle.Resolve(5, uint256.NewInt(2))
	assert.ErrorIs(t, err, errs.PhaseError)
	err = oracle.Request(5)
	assert.ErrorIs(t, err, errs.PhaseError)
}
