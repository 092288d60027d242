package postgres

import (
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint128FromNumeric(t *testing.T) {
	t.Run("max", func(t *testing.T) {
		numeric, err := numericFromUint128(uint128.Max)
		require.NoError(t, err)
		actual, err := uint128FromNumeric(numeric)
		require.NoError(t, err)
		assert.Equal(t, uint128.Max, actual)
	})
	t.Run("invalid numeric is zero", func(t *testing.T) {
		actual, err := uint128FromNumeric(pgtype.Numeric{})
		require.NoError(t, err)
		assert.True(t, actual.IsZero())
	})
}

func TestAttributesJSON(t *testing.T) {
	bytes, err := attributesToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(bytes))

	bytes, err = attributesToJSON(map[string]string{"units": "15"})
	require.NoError(t, err)
	actual, err := attributesFromJSON(bytes)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"units": "15"}, actual)
}
