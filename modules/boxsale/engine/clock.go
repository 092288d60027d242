package engine

import (
	"time"

	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
)

// Clock tells the processor at which block the next command executes.
type Clock interface {
	Now() entity.Block
}

// SystemClock derives the block height from wall clock time since genesis.
type SystemClock struct {
	Genesis   time.Time
	BlockTime time.Duration

	now func() time.Time
}

const DefaultBlockTime = time.Second

func NewSystemClock(genesis time.Time, blockTime time.Duration) *SystemClock {
	if blockTime <= 0 {
		blockTime = DefaultBlockTime
	}
	return &SystemClock{Genesis: genesis, BlockTime: blockTime, now: time.Now}
}

func (c *SystemClock) Now() entity.Block {
	now := c.now().Truncate(time.Second)
	var height int64
	if elapsed := now.Sub(c.Genesis); elapsed > 0 {
		height = int64(elapsed / c.BlockTime)
	}
	return entity.Block{Height: height, Time: now}
}
