package parquetutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name   string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Amount int64  `parquet:"name=amount, type=INT64"`
	Done   bool   `parquet:"name=done, type=BOOLEAN"`
}

func TestWriteAllReadAll(t *testing.T) {
	records := []record{
		{Name: "genesis", Amount: 10, Done: true},
		{Name: "lottery", Amount: 0},
	}
	data, err := WriteAll(records)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, err := ReadAll[record](data)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadAllInvalidData(t *testing.T) {
	_, err := ReadAll[record]([]byte("not a parquet file"))
	assert.Error(t, err)
}
