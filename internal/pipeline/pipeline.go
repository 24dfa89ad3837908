// Package pipeline fetches upstream data for a dataset and turns it into a
// chart series.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"perpStats/internal/derive"
	"perpStats/internal/fetch"
	"perpStats/internal/model"
	"perpStats/internal/registry"
	"perpStats/internal/series"
)

var (
	ErrUnknownDataset    = errors.New("unknown dataset")
	ErrNoSource          = errors.New("upstream source not configured")
	// ErrUnsupportedPeriod is returned for any period but one day. Every
	// series is bucketed daily, so another period would only rescale APR.
	ErrUnsupportedPeriod = errors.New("unsupported period")
)

// Params select the window and chain of one computation.
type Params struct {
	From   int64
	To     int64
	Chain  registry.Chain
	Period int64
}

// withDefaults fills From with the launch date, To with now and Period with one day.
func (p Params) withDefaults(now time.Time) Params {
	if p.From <= 0 {
		p.From = registry.LaunchTimestamp
	}
	if p.To <= 0 {
		p.To = now.Unix()
	}
	if p.Period <= 0 {
		p.Period = series.DaySeconds
	}
	if p.Chain == "" {
		p.Chain = registry.Arbitrum
	}
	return p
}

func (p Params) window() series.Window {
	return series.Window{From: p.From, To: p.To}
}

// Subgraph runs GraphQL documents against one subgraph.
type Subgraph interface {
	Query(ctx context.Context, query string) (map[string][]model.Record, error)
}

// VolumeFeed serves raw per-action volume entries.
type VolumeFeed interface {
	DailyVolume(ctx context.Context, from int64) ([]model.Record, error)
}

// PriceFeed serves daily spot prices keyed by symbol.
type PriceFeed interface {
	Daily(ctx context.Context, symbol string, from int64) (model.Series, error)
}

// Sources are the upstream clients of one chain.
type Sources struct {
	Stats     Subgraph
	Referrals Subgraph
	Volume    VolumeFeed
	Prices    PriceFeed
}

// Result is one computed dataset.
type Result struct {
	Dataset string              `json:"dataset"`
	Chain   registry.Chain      `json:"chain"`
	From    int64               `json:"from"`
	To      int64               `json:"to"`
	Series  model.Series        `json:"data"`
	Columns []string            `json:"columns,omitempty"`
	Stats   *derive.TraderStats `json:"stats,omitempty"`
	// NoData is set when an input had nothing in the window.
	NoData bool `json:"noData,omitempty"`
	// Stale marks a result read back from storage instead of computed.
	Stale bool `json:"stale,omitempty"`
}

type datasetFunc func(ctx context.Context, src Sources, p Params) (Result, error)

// Runner computes datasets. It is safe for concurrent use.
type Runner struct {
	sources  map[registry.Chain]Sources
	pool     pond.Pool
	logger   *zap.Logger
	now      func() time.Time
	datasets map[string]datasetFunc
}

// NewRunner builds a Runner. workers bounds the number of concurrent upstream fetches.
func NewRunner(sources map[registry.Chain]Sources, workers int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 8
	}
	r := &Runner{
		sources: sources,
		pool:    pond.NewPool(workers),
		logger:  logger,
		now:     time.Now,
	}
	r.datasets = map[string]datasetFunc{
		"fees":             r.fees,
		"volume":           r.volume,
		"volume-server":    r.serverVolume,
		"pool":             r.poolStats,
		"aum-performance":  r.aumPerformance,
		"pool-performance": r.poolPerformance,
		"funding-rates":    r.fundingRates,
		"users":            r.users,
		"traders":          r.traders,
		"swap-sources":     r.swapSources,
		"token-stats":      r.tokenStats,
		"referrals":        r.referrals,
	}
	return r
}

// Close waits for in-flight fetches and stops the worker pool.
func (r *Runner) Close() {
	r.pool.StopAndWait()
}

// Datasets lists the dataset names Run accepts.
func (r *Runner) Datasets() []string {
	names := make([]string, 0, len(r.datasets))
	for name := range r.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run computes dataset for p.
func (r *Runner) Run(ctx context.Context, dataset string, p Params) (Result, error) {
	fn, ok := r.datasets[dataset]
	if !ok {
		return Result{}, fmt.Errorf("%w %q", ErrUnknownDataset, dataset)
	}
	p = p.withDefaults(r.now())
	if _, err := p.Chain.ID(); err != nil {
		return Result{}, err
	}
	if p.Period != series.DaySeconds {
		return Result{}, fmt.Errorf("%w: %ds, only %ds is served", ErrUnsupportedPeriod, p.Period, series.DaySeconds)
	}
	src, ok := r.sources[p.Chain]
	if !ok {
		return Result{}, fmt.Errorf("%w: chain %s", ErrNoSource, p.Chain)
	}

	start := time.Now()
	res, err := fn(ctx, src, p)
	if err != nil {
		return Result{}, fmt.Errorf("%s on %s: %w", dataset, p.Chain, err)
	}
	res.Dataset, res.Chain, res.From, res.To = dataset, p.Chain, p.From, p.To

	fields := []zap.Field{
		zap.String("dataset", dataset),
		zap.String("chain", p.Chain.String()),
		zap.Int("points", len(res.Series)),
		zap.Duration("took", time.Since(start)),
	}
	if res.NoData {
		r.logger.Warn("dataset has no data in window", fields...)
	} else {
		r.logger.Info("dataset computed", fields...)
	}
	return res, nil
}

// parallel runs tasks on the worker pool and returns the first error.
func (r *Runner) parallel(ctx context.Context, tasks ...func(context.Context) error) error {
	group := r.pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for _, task := range tasks {
		task := task
		group.SubmitErr(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return task(groupCtx)
		})
	}
	return group.Wait()
}

// collection runs a single-collection query and returns its records.
func collection(ctx context.Context, sg Subgraph, c fetch.Collection) ([]model.Record, error) {
	if sg == nil {
		return nil, fmt.Errorf("%w: subgraph for %s", ErrNoSource, c.Entity)
	}
	query, err := fetch.BuildQuery(c)
	if err != nil {
		return nil, err
	}
	data, err := sg.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	name := c.Entity
	if c.Alias != "" {
		name = c.Alias
	}
	return data[name], nil
}

// ParseTimestamp accepts unix seconds or an RFC 3339 time. Empty means zero.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ts < 0 {
			return 0, fmt.Errorf("negative timestamp %d", ts)
		}
		return ts, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: want unix seconds or RFC 3339", s)
	}
	return t.Unix(), nil
}
