package pipeline

import (
	"context"
	"fmt"
	"strings"

	"perpStats/internal/fetch"
	"perpStats/internal/model"
	"perpStats/internal/series"
)

func (r *Runner) fees(ctx context.Context, src Sources, p Params) (Result, error) {
	records, err := collection(ctx, src.Stats, fetch.FeeStats(p.Chain, p.From, p.To))
	if err != nil {
		return Result{}, err
	}
	s, err := feeSeries(records, p.From)
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s}, nil
}

func (r *Runner) volume(ctx context.Context, src Sources, p Params) (Result, error) {
	records, err := collection(ctx, src.Stats, fetch.VolumeStats(p.Chain, p.From, p.To))
	if err != nil {
		return Result{}, err
	}
	s, err := volumeSeries(records, fetch.TimestampField(p.Chain))
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s}, nil
}

func (r *Runner) serverVolume(ctx context.Context, src Sources, p Params) (Result, error) {
	if src.Volume == nil {
		return Result{}, fmt.Errorf("%w: volume server", ErrNoSource)
	}
	records, err := src.Volume.DailyVolume(ctx, p.From)
	if err != nil {
		return Result{}, err
	}
	s, err := serverVolumeSeries(records, p.window())
	if err != nil {
		return Result{}, err
	}
	return Result{Series: s}, nil
}

// feeSeries scales daily fee stats, derives liquidation fees and aggregates.
// Points before from are dropped after the running totals are computed.
func feeSeries(records []model.Record, from int64) (model.Series, error) {
	rows := make([]model.Record, 0, len(records))
	for i, rec := range records {
		ts, ok := rec.Int(model.KeyTimestamp)
		if !ok || ts == 0 {
			ts, ok = rec.Int(model.KeyID)
		}
		if !ok {
			return nil, fmt.Errorf("fee record %d: %w", i, series.ErrMissingTimestamp)
		}
		row := model.Record{model.KeyTimestamp: ts}
		for _, key := range []string{model.CategorySwap, model.CategoryMargin, model.CategoryMint, model.CategoryBurn} {
			if v, ok := rec.Scaled(key, 30); ok {
				row[key] = v
			}
		}
		margin, _ := rec.Scaled(model.CategoryMargin, 30)
		if total, ok := rec.Scaled("marginAndLiquidation", 30); ok {
			row[model.CategoryLiquidation] = total - margin
		}
		rows = append(rows, row)
	}

	bucketed, err := series.BucketRecords(rows, series.BucketConfig{Fields: model.TradeCategories.Keys()})
	if err != nil {
		return nil, err
	}
	return series.Aggregate(bucketed, model.TradeCategories, series.AggregateOptions{}).Window(from, 0), nil
}

func volumeSeries(records []model.Record, tsField string) (model.Series, error) {
	decimals := make(map[string]int32, model.TradeCategories.Len())
	for _, key := range model.TradeCategories.Keys() {
		decimals[key] = 30
	}
	bucketed, err := series.BucketRecords(records, series.BucketConfig{
		TimestampField: tsField,
		Fields:         model.TradeCategories.Keys(),
		Decimals:       decimals,
	})
	if err != nil {
		return nil, err
	}
	return series.Aggregate(bucketed, model.TradeCategories, series.AggregateOptions{}), nil
}

// actionCategory maps a stats server action name to its trade category.
func actionCategory(action string) string {
	switch {
	case action == "Swap":
		return model.CategorySwap
	case action == "SellUSDG":
		return model.CategoryBurn
	case action == "BuyUSDG":
		return model.CategoryMint
	case strings.Contains(action, "LiquidatePosition"):
		return model.CategoryLiquidation
	default:
		return model.CategoryMargin
	}
}

func serverVolumeSeries(records []model.Record, w series.Window) (model.Series, error) {
	rows := make([]model.Record, 0, len(records))
	for i, rec := range records {
		ts, ok := rec.Int(model.KeyTimestamp)
		if !ok {
			return nil, fmt.Errorf("volume entry %d: %w", i, series.ErrMissingTimestamp)
		}
		if ts < w.From || (w.To > 0 && ts > w.To) {
			continue
		}
		volume, ok := rec.Scaled(fetch.FieldVolume, 30)
		if !ok {
			continue
		}
		row := model.Record{model.KeyTimestamp: ts}
		row[actionCategory(rec.String(fetch.FieldAction))] = volume
		rows = append(rows, row)
	}
	bucketed, err := series.BucketRecords(rows, series.BucketConfig{Fields: model.TradeCategories.Keys()})
	if err != nil {
		return nil, err
	}
	return series.Aggregate(bucketed, model.TradeCategories, series.AggregateOptions{}), nil
}
