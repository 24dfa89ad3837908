// Package contracts reads live pool state and indexing lag from the chain.
package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"perpStats/internal/registry"
)

// ErrEmptySupply is returned when the pool token has no supply to price.
var ErrEmptySupply = errors.New("pool token supply is zero")

// Backend is the subset of chain.Client the reader calls.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
}

// Reader reads the registry contracts of one chain.
type Reader struct {
	backend Backend
	chain   registry.Chain
}

func NewReader(backend Backend, chain registry.Chain) *Reader {
	return &Reader{backend: backend, chain: chain}
}

// PoolPrice is the pool token price implied by assets under management.
type PoolPrice struct {
	Chain  registry.Chain `json:"chain"`
	Aum    float64        `json:"aum"`
	Supply float64        `json:"supply"`
	Price  float64        `json:"price"`
}

// PoolPrice prices the pool token as getAumInUsdg(true) / totalSupply, both
// with 18 decimals.
func (r *Reader) PoolPrice(ctx context.Context) (PoolPrice, error) {
	manager, err := registry.Resolve(r.chain, registry.KeyGlpManager)
	if err != nil {
		return PoolPrice{}, err
	}
	token, err := registry.Resolve(r.chain, registry.KeyGLP)
	if err != nil {
		return PoolPrice{}, err
	}

	managerABI, err := glpManagerABIInstance()
	if err != nil {
		return PoolPrice{}, fmt.Errorf("parse pool manager abi: %w", err)
	}
	supplyABI, err := erc20SupplyABIInstance()
	if err != nil {
		return PoolPrice{}, fmt.Errorf("parse erc20 abi: %w", err)
	}

	aum, err := r.callUint(ctx, manager, managerABI, "getAumInUsdg", true)
	if err != nil {
		return PoolPrice{}, err
	}
	supply, err := r.callUint(ctx, token, supplyABI, "totalSupply")
	if err != nil {
		return PoolPrice{}, err
	}
	if supply.Sign() == 0 {
		return PoolPrice{}, ErrEmptySupply
	}

	aumUsd := decimal.NewFromBigInt(aum, -18)
	supplyUnits := decimal.NewFromBigInt(supply, -18)
	return PoolPrice{
		Chain:  r.chain,
		Aum:    aumUsd.InexactFloat64(),
		Supply: supplyUnits.InexactFloat64(),
		Price:  aumUsd.DivRound(supplyUnits, 18).InexactFloat64(),
	}, nil
}

func (r *Reader) callUint(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := r.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: empty result", method)
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack %s: unexpected type %T", method, values[0])
	}
	return v, nil
}

// Lag is how far a subgraph trails the chain head.
type Lag struct {
	Chain         registry.Chain `json:"chain"`
	ChainBlock    uint64         `json:"chainBlock"`
	SubgraphBlock uint64         `json:"subgraphBlock"`
	Blocks        int64          `json:"blocks"`
	Seconds       int64          `json:"seconds"`
}

// SubgraphLag compares the chain head with the block a subgraph has indexed.
func (r *Reader) SubgraphLag(ctx context.Context, subgraphBlock uint64) (Lag, error) {
	head, err := r.backend.LatestBlockNumber(ctx)
	if err != nil {
		return Lag{}, fmt.Errorf("latest block: %w", err)
	}
	lag := Lag{Chain: r.chain, ChainBlock: head, SubgraphBlock: subgraphBlock}
	if subgraphBlock >= head {
		return lag, nil
	}

	headTs, err := r.backend.BlockTimestamp(ctx, head)
	if err != nil {
		return Lag{}, fmt.Errorf("head timestamp: %w", err)
	}
	indexedTs, err := r.backend.BlockTimestamp(ctx, subgraphBlock)
	if err != nil {
		return Lag{}, fmt.Errorf("subgraph block timestamp: %w", err)
	}
	lag.Blocks = int64(head - subgraphBlock)
	lag.Seconds = int64(headTs) - int64(indexedTs)
	return lag, nil
}
