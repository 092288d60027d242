package parquetutils

import (
	"github.com/cockroachdb/errors"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// Concurrency parallel number of file readers and writers.
var Concurrency int64 = 4

// ReadAll reads all records from an in-memory parquet file.
func ReadAll[T any](data []byte) ([]T, error) {
	r, err := reader.NewParquetReader(parquetbuffer.NewBufferFileFromBytesNoAlloc(data), new(T), Concurrency)
	if err != nil {
		return nil, errors.Wrap(err, "can't create parquet reader")
	}
	defer r.ReadStop()

	records := make([]T, r.GetNumRows())
	if err = r.Read(&records); err != nil {
		return nil, errors.Wrap(err, "failed to read parquet data")
	}

	return records, nil
}

// WriteAll encodes records into an in-memory, snappy compressed parquet file.
// T must carry parquet struct tags.
func WriteAll[T any](records []T) ([]byte, error) {
	buf := parquetbuffer.NewBufferFile()
	w, err := writer.NewParquetWriter(buf, new(T), Concurrency)
	if err != nil {
		return nil, errors.Wrap(err, "can't create parquet writer")
	}
	w.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range records {
		if err := w.Write(records[i]); err != nil {
			return nil, errors.Wrapf(err, "failed to write record %d", i)
		}
	}
	if err := w.WriteStop(); err != nil {
		return nil, errors.Wrap(err, "failed to flush parquet writer")
	}
	return buf.Bytes(), nil
}
