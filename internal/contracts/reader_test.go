package contracts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/registry"
)

type fakeBackend struct {
	aum        *big.Int
	supply     *big.Int
	head       uint64
	timestamps map[uint64]uint64
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	managerABI, err := glpManagerABIInstance()
	if err != nil {
		return nil, err
	}
	supplyABI, err := erc20SupplyABIInstance()
	if err != nil {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(msg.Data, managerABI.Methods["getAumInUsdg"].ID):
		return managerABI.Methods["getAumInUsdg"].Outputs.Pack(f.aum)
	case bytes.HasPrefix(msg.Data, supplyABI.Methods["totalSupply"].ID):
		return supplyABI.Methods["totalSupply"].Outputs.Pack(f.supply)
	default:
		return nil, fmt.Errorf("unexpected call to %s", msg.To.Hex())
	}
}

func (f *fakeBackend) LatestBlockNumber(context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeBackend) BlockTimestamp(_ context.Context, number uint64) (uint64, error) {
	ts, ok := f.timestamps[number]
	if !ok {
		return 0, fmt.Errorf("no block %d", number)
	}
	return ts, nil
}

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestPoolPrice(t *testing.T) {
	backend := &fakeBackend{aum: units(300), supply: units(250)}
	r := NewReader(backend, registry.Arbitrum)

	got, err := r.PoolPrice(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 300.0, got.Aum, 1e-9)
	assert.InDelta(t, 250.0, got.Supply, 1e-9)
	assert.InDelta(t, 1.2, got.Price, 1e-12)
	assert.Equal(t, registry.Arbitrum, got.Chain)
}

func TestPoolPriceWithoutSupply(t *testing.T) {
	backend := &fakeBackend{aum: units(300), supply: big.NewInt(0)}

	_, err := NewReader(backend, registry.Avalanche).PoolPrice(context.Background())
	assert.True(t, errors.Is(err, ErrEmptySupply))
}

func TestSubgraphLag(t *testing.T) {
	backend := &fakeBackend{head: 1000, timestamps: map[uint64]uint64{1000: 5000, 990: 4880}}
	r := NewReader(backend, registry.Arbitrum)

	lag, err := r.SubgraphLag(context.Background(), 990)
	require.NoError(t, err)
	assert.Equal(t, int64(10), lag.Blocks)
	assert.Equal(t, int64(120), lag.Seconds)

	lag, err = r.SubgraphLag(context.Background(), 1000)
	require.NoError(t, err)
	assert.Zero(t, lag.Blocks)
	assert.Zero(t, lag.Seconds)
}
