package report

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/modules/boxsale/config"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/pkg/parquetutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = common.MustParseAddress("0x00000000000000000000000000000000000000f0")
	token = common.MustParseAddress("0x00000000000000000000000000000000000000c0")
	alice = common.MustParseAddress("0x0000000000000000000000000000000000000a11")
	bob   = common.MustParseAddress("0x0000000000000000000000000000000000000b0b")
)

type clock struct {
	block entity.Block
}

func (c *clock) Now() entity.Block { return c.block }

func (c *clock) at(height int64, unix int64) {
	c.block = entity.Block{Height: height, Time: time.Unix(unix, 0)}
}

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (u *memoryUploader) Upload(ctx context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if u.err != nil {
		return nil, u.err
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[aws.ToString(input.Bucket)+"/"+aws.ToString(input.Key)] = data
	return &manager.UploadOutput{Key: input.Key}, nil
}

func newProcessor(t *testing.T, c *clock) *engine.Processor {
	t.Helper()
	genesis, err := engine.Bootstrap(config.Config{
		Owner: owner.Hex(),
		MysteryBox: config.MysteryBoxConfig{
			Items: []config.ItemConfig{{URI: "ipfs://common", Quantity: 50}},
		},
		Sales: []config.SaleConfig{{
			Name:       "genesis",
			Strategy:   "rate",
			Quote:      token.Hex(),
			RatePrice:  "2",
			PoolSize:   50,
			ShareRate:  100,
			Launch:     1_000,
			Close:      2_000,
			ClaimStart: 3_000,
		}},
		Balances: []config.BalanceConfig{
			{Currency: token.Hex(), Account: alice.Hex(), Amount: "100"},
			{Currency: token.Hex(), Account: bob.Hex(), Amount: "100"},
		},
	})
	require.NoError(t, err)

	p := engine.NewProcessor(nil, c, genesis)
	go func() {
		_ = p.Run(context.Background())
	}()
	t.Cleanup(func() {
		require.NoError(t, p.Shutdown())
	})
	return p
}

func submit(t *testing.T, p *engine.Processor, cmd engine.Command) {
	t.Helper()
	_, err := p.Submit(context.Background(), cmd)
	require.NoError(t, err)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	c := &clock{}
	p := newProcessor(t, c)
	uploader := &memoryUploader{}
	exporter := NewExporter(p, uploader, "reports", "boxsale")

	c.at(5, 1_000)
	submit(t, p, &engine.StakeCommand{Instance: "genesis", Address: alice, Amount: "20"})
	submit(t, p, &engine.StakeCommand{Instance: "genesis", Address: bob, Amount: "40"})

	keys, err := exporter.Export(ctx, time.Unix(1_500, 0))
	require.NoError(t, err)
	assert.Empty(t, keys, "unallocated sales are not exported")

	c.at(20, 2_000)
	submit(t, p, &engine.RequestSeedCommand{Instance: "genesis", Caller: alice})
	submit(t, p, &engine.ResolveSeedCommand{Height: 20, Seed: "7"})
	submit(t, p, &engine.AllocateCommand{Instance: "genesis"})

	keys, err = exporter.Export(ctx, time.Unix(2_500, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"boxsale/genesis/bookings-2500.parquet"}, keys)

	data, ok := uploader.objects["reports/boxsale/genesis/bookings-2500.parquet"]
	require.True(t, ok)
	rows, err := parquetutils.ReadAll[BookingRow](data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "genesis", rows[0].Instance)
	assert.Equal(t, int64(1), rows[0].Index)
	assert.Equal(t, alice.Hex(), rows[0].Address)
	assert.Equal(t, "20", rows[0].Paid)
	assert.Equal(t, bob.Hex(), rows[1].Address)
	assert.LessOrEqual(t, rows[0].TotalAllocated+rows[1].TotalAllocated, int64(50))
	assert.False(t, rows[0].Claimed)
}

func TestExportUploadFailure(t *testing.T) {
	c := &clock{}
	p := newProcessor(t, c)
	c.at(5, 1_000)
	submit(t, p, &engine.StakeCommand{Instance: "genesis", Address: alice, Amount: "20"})
	c.at(20, 2_000)
	submit(t, p, &engine.RequestSeedCommand{Instance: "genesis", Caller: alice})
	submit(t, p, &engine.ResolveSeedCommand{Height: 20, Seed: "7"})
	submit(t, p, &engine.AllocateCommand{Instance: "genesis"})

	exporter := NewExporter(p, &memoryUploader{err: errors.New("bucket not found")}, "reports", "")
	_, err := exporter.Export(context.Background(), time.Unix(2_500, 0))
	assert.Error(t, err)
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), config.ReportConfig{})
	assert.Error(t, err)
}
