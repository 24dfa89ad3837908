package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"perpStats/internal/derive"
	"perpStats/internal/fetch"
	"perpStats/internal/model"
	"perpStats/internal/registry"
	"perpStats/internal/series"
)

func (r *Runner) poolStats(ctx context.Context, src Sources, p Params) (Result, error) {
	s, err := fetchPool(ctx, src, p)
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s}, nil
}

func fetchPool(ctx context.Context, src Sources, p Params) (model.Series, error) {
	records, err := collection(ctx, src.Stats, fetch.PoolStats(p.Chain, p.From, p.To))
	if err != nil {
		return nil, err
	}
	return derive.PoolSeries(records, fetch.TimestampField(p.Chain))
}

func fetchFees(ctx context.Context, src Sources, p Params) (model.Series, error) {
	records, err := collection(ctx, src.Stats, fetch.FeeStats(p.Chain, p.From, p.To))
	if err != nil {
		return nil, err
	}
	return feeSeries(records, p.From)
}

func fetchVolume(ctx context.Context, src Sources, p Params) (model.Series, error) {
	records, err := collection(ctx, src.Stats, fetch.VolumeStats(p.Chain, p.From, p.To))
	if err != nil {
		return nil, err
	}
	return volumeSeries(records, fetch.TimestampField(p.Chain))
}

func (r *Runner) aumPerformance(ctx context.Context, src Sources, p Params) (Result, error) {
	var fees, pool, volume model.Series
	err := r.parallel(ctx,
		func(ctx context.Context) (err error) { fees, err = fetchFees(ctx, src, p); return },
		func(ctx context.Context) (err error) { pool, err = fetchPool(ctx, src, p); return },
		func(ctx context.Context) (err error) { volume, err = fetchVolume(ctx, src, p); return },
	)
	if err != nil {
		return Result{}, err
	}

	rows, ok := series.JoinOn(p.window(), fees, pool, volume)
	if !ok {
		return Result{NoData: true}, nil
	}
	return Result{Series: derive.PoolPerformance(rows, p.Period)}, nil
}

// priceSymbols are the spot prices the benchmark needs on chain.
func priceSymbols(chain registry.Chain) []string {
	symbols := []string{"ETH"}
	for _, a := range derive.BenchmarkWeights(chain) {
		if a.Symbol != "ETH" {
			symbols = append(symbols, a.Symbol)
		}
	}
	return symbols
}

func (r *Runner) poolPerformance(ctx context.Context, src Sources, p Params) (Result, error) {
	if src.Prices == nil {
		return Result{}, fmt.Errorf("%w: price feed", ErrNoSource)
	}
	symbols := priceSymbols(p.Chain)
	prices := make([]model.Series, len(symbols))
	var fees, pool model.Series

	tasks := []func(context.Context) error{
		func(ctx context.Context) (err error) { fees, err = fetchFees(ctx, src, p); return },
		func(ctx context.Context) (err error) { pool, err = fetchPool(ctx, src, p); return },
	}
	for i, symbol := range symbols {
		i, symbol := i, symbol
		tasks = append(tasks, func(ctx context.Context) (err error) {
			prices[i], err = src.Prices.Daily(ctx, symbol, p.From)
			return
		})
	}
	if err := r.parallel(ctx, tasks...); err != nil {
		return Result{}, err
	}

	var merged model.Series
	for i, s := range prices {
		if len(s) == 0 {
			r.logger.Warn("no spot prices", zap.String("symbol", symbols[i]), zap.String("chain", p.Chain.String()))
		}
		merged = append(merged, s...)
	}
	merged = series.Rebucket(merged, series.DaySeconds, symbols...)

	out, ok, err := derive.Benchmark(derive.BenchmarkInput{
		Prices: merged,
		Pool:   pool,
		Fees:   fees,
		Assets: derive.BenchmarkWeights(p.Chain),
		Window: p.window(),
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{NoData: true}, nil
	}
	return Result{Series: out}, nil
}
