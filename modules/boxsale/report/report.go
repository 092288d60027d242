// Package report exports allocation results as parquet files to S3 compatible storage.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/config"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gaze-network/boxsale/pkg/logger"
	"github.com/gaze-network/boxsale/pkg/logger/slogx"
	"github.com/gaze-network/boxsale/pkg/parquetutils"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultInterval = 10 * time.Minute

	uploadConcurrency = 4
)

// BookingRow is one booking of an allocated sale.
type BookingRow struct {
	Instance       string `parquet:"name=instance, type=BYTE_ARRAY, convertedtype=UTF8"`
	Index          int64  `parquet:"name=index, type=INT64"`
	Address        string `parquet:"name=address, type=BYTE_ARRAY, convertedtype=UTF8"`
	Paid           string `parquet:"name=paid, type=BYTE_ARRAY, convertedtype=UTF8"`
	Tickets        int64  `parquet:"name=tickets, type=INT64"`
	RateAllocated  int64  `parquet:"name=rate_allocated, type=INT64"`
	EvenAllocated  int64  `parquet:"name=even_allocated, type=INT64"`
	WinningTickets int64  `parquet:"name=winning_tickets, type=INT64"`
	TotalAllocated int64  `parquet:"name=total_allocated, type=INT64"`
	Refund         string `parquet:"name=refund, type=BYTE_ARRAY, convertedtype=UTF8"`
	Claimed        bool   `parquet:"name=claimed, type=BOOLEAN"`
}

// Uploader is the part of manager.Uploader the exporter needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type Exporter struct {
	viewer   engine.Viewer
	uploader Uploader
	bucket   string
	prefix   string
}

func NewExporter(viewer engine.Viewer, uploader Uploader, bucket, prefix string) *Exporter {
	return &Exporter{
		viewer:   viewer,
		uploader: uploader,
		bucket:   bucket,
		prefix:   prefix,
	}
}

// NewS3Uploader creates an uploader from the default AWS credential chain.
func NewS3Uploader(ctx context.Context, conf config.ReportConfig) (*manager.Uploader, error) {
	if conf.Bucket == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "report bucket is required")
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}
	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if conf.Region != "" {
			o.Region = conf.Region
		}
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})
	return manager.NewUploader(client), nil
}

// Rows snapshots the bookings of every allocated sale, keyed by sale name.
func (e *Exporter) Rows(ctx context.Context) (map[string][]BookingRow, error) {
	rows, err := engine.Query(ctx, e.viewer, func(state *engine.State) (map[string][]BookingRow, error) {
		result := make(map[string][]BookingRow)
		for _, name := range state.SaleNames() {
			sale := state.Sales[name]
			if !sale.Allocated() {
				continue
			}
			bookings := sale.Bookings()
			sheet := make([]BookingRow, 0, len(bookings))
			for _, b := range bookings {
				refund, err := b.Refund()
				if err != nil {
					return nil, errors.Wrapf(err, "sale %s", name)
				}
				sheet = append(sheet, BookingRow{
					Instance:       name,
					Index:          int64(b.Index),
					Address:        b.Address.Hex(),
					Paid:           b.Paid.String(),
					Tickets:        int64(b.Tickets),
					RateAllocated:  int64(b.RateAllocated),
					EvenAllocated:  int64(b.EvenAllocated),
					WinningTickets: int64(b.WinningTickets),
					TotalAllocated: int64(b.TotalAllocated),
					Refund:         refund.String(),
					Claimed:        b.Claimed,
				})
			}
			result[name] = sheet
		}
		return result, nil
	})
	return rows, errors.WithStack(err)
}

// Export uploads one parquet file per allocated sale and returns the object keys.
func (e *Exporter) Export(ctx context.Context, at time.Time) ([]string, error) {
	sheets, err := e.Rows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect bookings")
	}

	keys := make([]string, 0, len(sheets))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uploadConcurrency)
	for name, rows := range sheets {
		key := e.objectKey(name, at)
		keys = append(keys, key)
		group.Go(func() error {
			data, err := parquetutils.WriteAll(rows)
			if err != nil {
				return errors.Wrapf(err, "failed to encode report of %s", name)
			}
			if _, err := e.uploader.Upload(groupCtx, &s3.PutObjectInput{
				Bucket: aws.String(e.bucket),
				Key:    aws.String(key),
				Body:   bytes.NewReader(data),
			}); err != nil {
				return errors.Wrapf(err, "failed to upload report of %s", name)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	slices.Sort(keys)
	return keys, nil
}

func (e *Exporter) objectKey(instance string, at time.Time) string {
	return path.Join(e.prefix, instance, fmt.Sprintf("bookings-%d.parquet", at.Unix()))
}

// Run exports on every tick until ctx is done.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx = logger.WithContext(ctx, slog.String("package", "boxsale"), slog.String("component", "report"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case at := <-ticker.C:
			keys, err := e.Export(ctx, at)
			if err != nil {
				if errors.Is(err, errs.Closed) {
					return nil
				}
				logger.ErrorContext(ctx, "Failed to export allocation report", err)
				continue
			}
			if len(keys) > 0 {
				logger.InfoContext(ctx, "Exported allocation report", slogx.Int("files", len(keys)), slogx.String("bucket", e.bucket))
			}
		}
	}
}
