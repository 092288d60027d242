package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/gaze-network/boxsale/common/errs"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePending(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{}
	p := NewProcessor(nil, clock, testGenesis(t))
	startProcessor(t, p)

	clock.at(5, testLaunch)
	_, err := p.Submit(ctx, &StakeCommand{Instance: "genesis", Address: alice, Amount: "10"})
	require.NoError(t, err)
	clock.at(20, testClose)
	_, err = p.Submit(ctx, &RequestSeedCommand{Instance: "genesis", Caller: alice})
	require.NoError(t, err)

	entropy := bytes.Repeat([]byte{0x01}, 32)
	resolver := NewResolver(p, 0)
	resolver.entropy = bytes.NewReader(entropy)

	resolved, err := resolver.ResolvePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	seed, err := Query(ctx, p, func(state *State) (*uint256.Int, error) {
		seed, ok := state.LocalOracle.Seed(20)
		if !ok {
			return nil, errs.NotFound
		}
		return seed, nil
	})
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).SetBytes32(entropy), seed)

	resolved, err = resolver.ResolvePending(ctx)
	require.NoError(t, err)
	assert.Zero(t, resolved, "nothing left to resolve")
}

func TestResolverEntropyFailure(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{}
	p := NewProcessor(nil, clock, testGenesis(t))
	startProcessor(t, p)

	clock.at(5, testLaunch)
	_, err := p.Submit(ctx, &StakeCommand{Instance: "genesis", Address: alice, Amount: "10"})
	require.NoError(t, err)
	clock.at(20, testClose)
	_, err = p.Submit(ctx, &RequestSeedCommand{Instance: "genesis", Caller: alice})
	require.NoError(t, err)

	resolver := NewResolver(p, 0)
	resolver.entropy = bytes.NewReader([]byte{0x01})
	resolved, err := resolver.ResolvePending(ctx)
	assert.Error(t, err)
	assert.Zero(t, resolved)
}
