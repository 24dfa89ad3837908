package derive

import (
	"fmt"

	"perpStats/internal/model"
	"perpStats/internal/registry"
	"perpStats/internal/series"
)

// Upstream funding rate fields.
const (
	FieldToken            = "token"
	FieldStartFundingRate = "startFundingRate"
	FieldEndFundingRate   = "endFundingRate"
	FieldStartTimestamp   = "startTimestamp"
	FieldEndTimestamp     = "endTimestamp"
)

// excluded from the funding chart
const skippedFundingSymbol = "MIM"

const fieldRate = "rate"

// FundingRate annualizes the cumulative funding rate delta over an interval,
// in percent. The interval is floored to whole hours.
func FundingRate(start, end float64, startTs, endTs int64) (float64, bool) {
	if start == 0 || end == 0 {
		return 0, false
	}
	hours := (endTs - startTs) / 3600 * 3600
	if hours <= 0 {
		return 0, false
	}
	days := float64(hours) / float64(series.DaySeconds)
	return (end - start) / days / 10000 * 365, true
}

// FundingSeries pivots per-token funding rates into one column per token
// symbol and carries rates forward across gaps.
func FundingSeries(records []model.Record) (model.Series, []string, error) {
	rates := make([]model.Record, 0, len(records))
	for i, rec := range records {
		ts, ok := rec.Int(model.KeyTimestamp)
		if !ok {
			return nil, nil, fmt.Errorf("funding record %d: %w %q", i, series.ErrMissingTimestamp, model.KeyTimestamp)
		}
		start, _ := rec.Number(FieldStartFundingRate)
		end, _ := rec.Number(FieldEndFundingRate)
		startTs, _ := rec.Int(FieldStartTimestamp)
		endTs, _ := rec.Int(FieldEndTimestamp)
		rate, ok := FundingRate(start, end, startTs, endTs)
		if !ok {
			continue
		}
		rates = append(rates, model.Record{
			model.KeyTimestamp: ts,
			FieldToken:         rec.String(FieldToken),
			fieldRate:          rate,
		})
	}

	out, columns, err := series.Pivot(rates, series.PivotConfig{
		KeyField:   FieldToken,
		ValueField: fieldRate,
		Rename: func(token string) string {
			symbol, _ := registry.TokenSymbol(token)
			return symbol
		},
		Skip: func(symbol string) bool { return symbol == skippedFundingSymbol },
	})
	if err != nil {
		return nil, nil, err
	}
	return series.FillForward(out, columns), columns, nil
}
