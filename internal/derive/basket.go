package derive

import (
	"errors"
	"fmt"
	"math"
)

// StableSymbol names the cash leg of a basket.
const StableSymbol = "stable"

var ErrInvalidBasket = errors.New("invalid basket")

// Asset is one weighted component of a synthetic basket.
type Asset struct {
	Symbol string
	Weight float64
}

// Basket is a synthetic index rebalanced to fixed target weights. The weight
// left over after the assets is held in a stable leg priced at 1.
type Basket struct {
	assets      []Asset
	units       map[string]float64
	stable      float64
	stableUnits float64
}

// NewBasket seeds unit counts so the basket is worth startPrice at firstPrices.
func NewBasket(startPrice float64, assets []Asset, firstPrices map[string]float64) (*Basket, error) {
	if startPrice <= 0 || math.IsNaN(startPrice) || math.IsInf(startPrice, 0) {
		return nil, fmt.Errorf("%w: start price %v", ErrInvalidBasket, startPrice)
	}
	stable := 1.0
	seen := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		if a.Symbol == "" || a.Symbol == StableSymbol {
			return nil, fmt.Errorf("%w: asset symbol %q", ErrInvalidBasket, a.Symbol)
		}
		if _, ok := seen[a.Symbol]; ok {
			return nil, fmt.Errorf("%w: duplicate asset %s", ErrInvalidBasket, a.Symbol)
		}
		seen[a.Symbol] = struct{}{}
		if a.Weight < 0 || math.IsNaN(a.Weight) {
			return nil, fmt.Errorf("%w: weight %v for %s", ErrInvalidBasket, a.Weight, a.Symbol)
		}
		stable -= a.Weight
	}
	if stable < -1e-9 {
		return nil, fmt.Errorf("%w: weights sum to %v", ErrInvalidBasket, 1-stable)
	}
	if stable < 0 {
		stable = 0
	}

	b := &Basket{
		assets: append([]Asset(nil), assets...),
		units:  make(map[string]float64, len(assets)),
		stable: stable,
	}
	if err := b.Rebalance(startPrice, firstPrices); err != nil {
		return nil, err
	}
	return b, nil
}

// Price values the basket at prices. Every asset needs a positive price.
func (b *Basket) Price(prices map[string]float64) (float64, bool) {
	total := b.stableUnits
	for _, a := range b.assets {
		price, ok := prices[a.Symbol]
		if !ok || price <= 0 {
			return 0, false
		}
		total += b.units[a.Symbol] * price
	}
	return total, true
}

// Rebalance resets unit counts so each asset holds its target share of basketPrice.
func (b *Basket) Rebalance(basketPrice float64, prices map[string]float64) error {
	units := make(map[string]float64, len(b.assets))
	for _, a := range b.assets {
		price, ok := prices[a.Symbol]
		if !ok || price <= 0 {
			return fmt.Errorf("%w: no price for %s", ErrInvalidBasket, a.Symbol)
		}
		units[a.Symbol] = basketPrice * a.Weight / price
	}
	b.units = units
	b.stableUnits = basketPrice * b.stable
	return nil
}

// Units returns the held unit count of symbol, StableSymbol included.
func (b *Basket) Units(symbol string) float64 {
	if symbol == StableSymbol {
		return b.stableUnits
	}
	return b.units[symbol]
}

// Assets returns the basket components without the stable leg.
func (b *Basket) Assets() []Asset {
	return append([]Asset(nil), b.assets...)
}

// StableWeight is the target weight of the stable leg.
func (b *Basket) StableWeight() float64 {
	return b.stable
}

// Weights returns the current value share of every leg, StableSymbol included.
func (b *Basket) Weights(prices map[string]float64) (map[string]float64, bool) {
	total, ok := b.Price(prices)
	if !ok || total <= 0 {
		return nil, false
	}
	out := make(map[string]float64, len(b.assets)+1)
	for _, a := range b.assets {
		out[a.Symbol] = b.units[a.Symbol] * prices[a.Symbol] / total
	}
	out[StableSymbol] = b.stableUnits / total
	return out, true
}
