package derive

import (
	"fmt"
	"sort"

	"perpStats/internal/model"
	"perpStats/internal/series"
)

// Upstream pool snapshot fields.
const (
	FieldAUMInUsdg      = "aumInUsdg"
	FieldPoolSupply     = "glpSupply"
	FieldDistributedUsd = "distributedUsd"
	FieldDistributedEth = "distributedEth"
)

// Pool series keys.
const (
	KeyAUM                       = "aum"
	KeySupply                    = "supply"
	KeyPoolPrice                 = "price"
	KeyDistributedUsdPerShare    = "distributedUsdPerShare"
	KeyDistributedEthPerShare    = "distributedEthPerShare"
	KeyCumDistributedUsdPerShare = "cumulativeDistributedUsdPerShare"
	KeyCumDistributedEthPerShare = "cumulativeDistributedEthPerShare"
	KeySupplyChange              = "supplyChange"
	KeyAUMChange                 = "aumChange"
)

// maxChangePercent resets day-over-day changes that come from a pool launch.
const maxChangePercent = 1000.0

// PoolSeries turns raw pool snapshots into the daily pool token series. Only
// snapshots on a day boundary are used and the last one per day wins.
func PoolSeries(records []model.Record, tsField string) (model.Series, error) {
	if tsField == "" {
		tsField = model.KeyTimestamp
	}
	type snapshot struct {
		ts  int64
		rec model.Record
	}
	daily := make([]snapshot, 0, len(records))
	for i, rec := range records {
		ts, ok := rec.Int(tsField)
		if !ok {
			return nil, fmt.Errorf("pool record %d: %w %q", i, series.ErrMissingTimestamp, tsField)
		}
		if ts%series.DaySeconds != 0 {
			continue
		}
		daily = append(daily, snapshot{ts: ts, rec: rec})
	}
	sort.SliceStable(daily, func(i, j int) bool { return daily[i].ts < daily[j].ts })

	// last write wins per timestamp
	deduped := daily[:0]
	for _, s := range daily {
		if n := len(deduped); n > 0 && deduped[n-1].ts == s.ts {
			deduped[n-1] = s
			continue
		}
		deduped = append(deduped, s)
	}

	out := make(model.Series, 0, len(deduped))
	var cumUsd, cumEth, prevSupply, prevAUM float64
	for _, s := range deduped {
		p := model.NewTimePoint(s.ts)
		aum, _ := s.rec.Scaled(FieldAUMInUsdg, 18)
		supply, _ := s.rec.Scaled(FieldPoolSupply, 18)
		usd, _ := s.rec.Scaled(FieldDistributedUsd, 30)
		eth, _ := s.rec.Scaled(FieldDistributedEth, 18)

		usdPerShare, _ := perShare(usd, supply)
		ethPerShare, _ := perShare(eth, supply)
		cumUsd += usdPerShare
		cumEth += ethPerShare

		p.Set(KeyAUM, aum)
		p.Set(KeySupply, supply)
		if price, ok := perShare(aum, supply); ok {
			p.Set(KeyPoolPrice, price)
		}
		p.Set(KeyDistributedUsdPerShare, usdPerShare)
		p.Set(KeyDistributedEthPerShare, ethPerShare)
		p.Set(KeyCumDistributedUsdPerShare, cumUsd)
		p.Set(KeyCumDistributedEthPerShare, cumEth)

		if supply == 0 {
			supply = prevSupply
		}
		if aum == 0 {
			aum = prevAUM
		}
		p.Set(KeySupplyChange, change(supply, prevSupply))
		p.Set(KeyAUMChange, change(aum, prevAUM))
		prevSupply, prevAUM = supply, aum

		out = append(out, p)
	}
	return series.FillForward(out, series.Keys(out)), nil
}

func perShare(v, supply float64) (float64, bool) {
	if supply == 0 {
		return 0, false
	}
	return v / supply, true
}

func change(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	c := (cur - prev) / prev * 100
	if c > maxChangePercent {
		return 0
	}
	return c
}
