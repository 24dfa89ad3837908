package derive

import (
	"fmt"
	"strings"

	"perpStats/internal/model"
	"perpStats/internal/registry"
	"perpStats/internal/series"
)

// DefaultStartPrice seeds the benchmarks when the pool has no price on the first day.
const DefaultStartPrice = 1.19

// Benchmark series keys. Per-asset keys are built with the asset symbol.
const (
	KeySyntheticPrice         = "syntheticPrice"
	KeyPoolPlusFees           = "poolPlusFees"
	KeyPoolPlusDistributedUsd = "poolPlusDistributedUsd"
	KeyPoolPlusDistributedEth = "poolPlusDistributedEth"
	KeyCumulativeFeesPerShare = "cumulativeFeesPerShare"
)

// BenchmarkWeights returns the synthetic basket composition used for chain.
func BenchmarkWeights(chain registry.Chain) []Asset {
	if chain == registry.Avalanche {
		return []Asset{{Symbol: "BTC", Weight: 0.166}, {Symbol: "ETH", Weight: 0.166}, {Symbol: "AVAX", Weight: 0.166}}
	}
	return []Asset{{Symbol: "BTC", Weight: 0.25}, {Symbol: "ETH", Weight: 0.25}}
}

// BenchmarkInput holds the daily series compared by Benchmark.
type BenchmarkInput struct {
	// Prices carries one key per asset symbol and drives the output timestamps.
	Prices model.Series
	// Pool is the output of PoolSeries.
	Pool model.Series
	// Fees is an aggregated fee series carrying "all".
	Fees    model.Series
	Assets  []Asset
	Window  series.Window
	Rewards RewardSchedule
	// EthSymbol prices the ETH distributions. Defaults to "ETH".
	EthSymbol string
}

type lpLeg struct {
	symbol string
	lp     LPBenchmark
}

// Benchmark compares the pool token against a daily rebalanced synthetic
// basket and per-asset 50/50 LP positions. ok is false when an input has no
// data in the window.
func Benchmark(in BenchmarkInput) (model.Series, bool, error) {
	rows, ok := series.JoinOn(in.Window, in.Prices, in.Pool, in.Fees)
	if !ok {
		return nil, false, nil
	}
	first, ok := firstPrices(rows, in.Assets)
	if !ok {
		return nil, false, nil
	}
	rewards := in.Rewards
	if rewards == (RewardSchedule{}) {
		rewards = DefaultRewardSchedule
	}
	ethSymbol := in.EthSymbol
	if ethSymbol == "" {
		ethSymbol = "ETH"
	}

	start := DefaultStartPrice
	if pool := rows[0].Sides[1]; pool.Present && !pool.Carried {
		if price, ok := pool.Point.Get(KeyPoolPrice); ok && price > 0 {
			start = price
		}
	}

	basket, err := NewBasket(start, in.Assets, first)
	if err != nil {
		return nil, false, fmt.Errorf("seed basket: %w", err)
	}
	legs := make([]lpLeg, 0, len(in.Assets))
	for _, a := range in.Assets {
		legs = append(legs, lpLeg{symbol: a.Symbol, lp: NewLPBenchmark(start, first[a.Symbol])})
	}

	accrual := FeeAccrual{Schedule: rewards}
	last := make(map[string]float64, len(first))
	for k, v := range first {
		last[k] = v
	}

	out := make(model.Series, 0, len(rows))
	for _, row := range rows {
		p := model.NewTimePoint(row.Timestamp)
		day := series.Bucket(row.Timestamp, series.DaySeconds)

		prices := make(map[string]float64, len(last))
		for _, a := range in.Assets {
			if v, ok := row.Sides[0].Value(a.Symbol); ok && v > 0 {
				last[a.Symbol] = v
			}
			prices[a.Symbol] = last[a.Symbol]
			p.Set(lowerSymbol(a.Symbol)+"Price", prices[a.Symbol])
		}
		if v, ok := row.Sides[0].Value(ethSymbol); ok && v > 0 {
			last[ethSymbol] = v
		}

		synthetic, ok := basket.Price(prices)
		if !ok {
			return nil, false, fmt.Errorf("basket price at %d: missing asset price", row.Timestamp)
		}
		if err := basket.Rebalance(synthetic, prices); err != nil {
			return nil, false, fmt.Errorf("rebalance at %d: %w", row.Timestamp, err)
		}
		p.Set(KeySyntheticPrice, synthetic)
		for _, a := range in.Assets {
			p.Set("index"+titleSymbol(a.Symbol)+"Count", basket.Units(a.Symbol))
		}
		p.Set("indexStableCount", basket.Units(StableSymbol))
		if weights, ok := basket.Weights(prices); ok {
			for symbol, w := range weights {
				p.Set(lowerSymbol(symbol)+"Weight", w)
			}
		}

		poolPrice, _ := row.Sides[1].Value(KeyPoolPrice)
		supply, _ := row.Sides[1].Value(KeySupply)
		if fees := row.Sides[2]; fees.Present && !fees.Carried {
			accrual.Add(day, fees.Point.Value(model.KeyAll), supply)
		}
		p.Set(KeyCumulativeFeesPerShare, accrual.Total)

		var plusFees, plusUsd, plusEth float64
		if poolPrice > 0 {
			p.Set(KeyPoolPrice, poolPrice)
			plusFees = poolPrice
			if supply > 0 && accrual.Total > 0 {
				plusFees = poolPrice + accrual.Total
			}
			p.Set(KeyPoolPlusFees, plusFees)
			if cum, ok := row.Sides[1].Value(KeyCumDistributedUsdPerShare); ok && cum != 0 {
				plusUsd = poolPrice + cum
				p.Set(KeyPoolPlusDistributedUsd, plusUsd)
			}
			if cum, ok := row.Sides[1].Value(KeyCumDistributedEthPerShare); ok && cum != 0 && last[ethSymbol] > 0 {
				plusEth = poolPrice + cum*last[ethSymbol]
				p.Set(KeyPoolPlusDistributedEth, plusEth)
			}
		}

		setRatios(&p, "performanceSynthetic", synthetic, poolPrice, plusFees, plusUsd, plusEth)
		for _, leg := range legs {
			value, ok := leg.lp.Value(prices[leg.symbol])
			if !ok {
				continue
			}
			name := titleSymbol(leg.symbol)
			p.Set("lp"+name+"Price", value)
			setRatios(&p, "performanceLp"+name, value, poolPrice, plusFees, plusUsd, plusEth)
		}
		out = append(out, p)
	}
	return out, true, nil
}

func setRatios(p *model.TimePoint, prefix string, benchmark, price, plusFees, plusUsd, plusEth float64) {
	v, ok := PerformanceRatio(price, benchmark)
	p.SetOptional(prefix, v, ok)
	v, ok = PerformanceRatio(plusFees, benchmark)
	p.SetOptional(prefix+"CollectedFees", v, ok)
	v, ok = PerformanceRatio(plusUsd, benchmark)
	p.SetOptional(prefix+"DistributedUsd", v, ok)
	v, ok = PerformanceRatio(plusEth, benchmark)
	p.SetOptional(prefix+"DistributedEth", v, ok)
}

// firstPrices is the first positive price of every asset inside rows.
func firstPrices(rows []series.Row, assets []Asset) (map[string]float64, bool) {
	out := make(map[string]float64, len(assets))
	for _, a := range assets {
		for _, row := range rows {
			if v, ok := row.Sides[0].Value(a.Symbol); ok && v > 0 {
				out[a.Symbol] = v
				break
			}
		}
		if _, ok := out[a.Symbol]; !ok {
			return nil, false
		}
	}
	return out, true
}

func lowerSymbol(symbol string) string {
	return strings.ToLower(symbol)
}

// titleSymbol turns "BTC" into "Btc" for camel-cased keys.
func titleSymbol(symbol string) string {
	if symbol == "" {
		return symbol
	}
	lower := strings.ToLower(symbol)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
