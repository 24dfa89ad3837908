package pipeline

import (
	"context"
	"fmt"

	"perpStats/internal/derive"
	"perpStats/internal/fetch"
	"perpStats/internal/model"
	"perpStats/internal/registry"
	"perpStats/internal/series"
	"perpStats/internal/sources"
)

// Shard sizes of the paginated collections.
const (
	swapSourcesTotal = 5000
	tokenStatsTotal  = 6000
)

func (r *Runner) fundingRates(ctx context.Context, src Sources, p Params) (Result, error) {
	records, err := collection(ctx, src.Stats, fetch.FundingRates(p.From, p.To))
	if err != nil {
		return Result{}, err
	}
	s, columns, err := derive.FundingSeries(records)
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s, Columns: columns}, nil
}

func (r *Runner) users(ctx context.Context, src Sources, p Params) (Result, error) {
	records, err := collection(ctx, src.Stats, fetch.UserStats(p.From, p.To))
	if err != nil {
		return Result{}, err
	}
	s, err := derive.UserSeries(records)
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s}, nil
}

func (r *Runner) traders(ctx context.Context, src Sources, p Params) (Result, error) {
	records, err := collection(ctx, src.Stats, fetch.TradingStats(p.From, p.To))
	if err != nil {
		return Result{}, err
	}
	s, stats, ok, err := derive.TraderSeries(records)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{NoData: true}, nil
	}
	return Result{Series: s, Stats: &stats}, nil
}

func (r *Runner) referrals(ctx context.Context, src Sources, p Params) (Result, error) {
	if src.Referrals == nil {
		return Result{}, fmt.Errorf("%w: referrals subgraph", ErrNoSource)
	}
	records, err := collection(ctx, src.Referrals, fetch.ReferralStats(p.From, p.To))
	if err != nil {
		return Result{}, err
	}
	s, err := derive.ReferralSeries(records)
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s}, nil
}

// shards fetches total entities of a paginated collection, one query per page,
// and returns them in page order.
func (r *Runner) shards(ctx context.Context, sg Subgraph, total int, build func(fetch.Page) fetch.Collection) ([][]model.Record, error) {
	if sg == nil {
		return nil, fmt.Errorf("%w: stats subgraph", ErrNoSource)
	}
	pages, err := fetch.SplitPages(total, fetch.MaxPageSize)
	if err != nil {
		return nil, err
	}
	out := make([][]model.Record, len(pages))
	tasks := make([]func(context.Context) error, len(pages))
	for i, page := range pages {
		i, page := i, page
		tasks[i] = func(ctx context.Context) error {
			records, err := collection(ctx, sg, build(page))
			if err != nil {
				return fmt.Errorf("page skip=%d: %w", page.Skip, err)
			}
			out[i] = records
			return nil
		}
	}
	if err := r.parallel(ctx, tasks...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Runner) swapSources(ctx context.Context, src Sources, p Params) (Result, error) {
	shards, err := r.shards(ctx, src.Stats, swapSourcesTotal, func(page fetch.Page) fetch.Collection {
		return fetch.SwapSources(page, p.From, p.To)
	})
	if err != nil {
		return Result{}, err
	}
	s := sources.Classify(shards, registry.SwapSources(p.Chain), sources.Config{
		TopN:     sources.DefaultTopN,
		Decimals: 30,
	})
	return Result{Series: s}, nil
}

func (r *Runner) tokenStats(ctx context.Context, src Sources, p Params) (Result, error) {
	shards, err := r.shards(ctx, src.Stats, tokenStatsTotal, func(page fetch.Page) fetch.Collection {
		return fetch.TokenStats(page, "", p.From, p.To)
	})
	if err != nil {
		return Result{}, err
	}
	var records []model.Record
	for _, shard := range shards {
		records = append(records, shard...)
	}
	s, columns, err := series.Pivot(records, series.PivotConfig{
		KeyField:   "token",
		ValueField: "poolAmountUsd",
		Decimals:   30,
		Rename:     tokenSymbol,
		Total:      true,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s, Columns: columns}, nil
}

// tokenSymbol names a token column, falling back to the address.
func tokenSymbol(token string) string {
	symbol, _ := registry.TokenSymbol(token)
	return symbol
}
