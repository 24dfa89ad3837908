// Package sources attributes swap volume to the contracts that routed it.
package sources

import (
	"sort"
	"strings"

	"perpStats/internal/model"
	"perpStats/internal/series"
)

// DefaultTopN is the number of named sources kept before folding into Other.
const DefaultTopN = 30

// Other collects the volume of sources outside the top N.
const Other = "Other"

// Record fields read by Classify.
const (
	FieldSource = "source"
	FieldSwap   = "swap"
)

// Config tunes Classify. Decimals is the fixed-point scale of the swap
// field; zero reads volumes as plain numbers.
type Config struct {
	TopN     int
	Decimals int32
}

// Classify buckets swap volume by day and source name. Source addresses are
// resolved through names; unknown addresses keep their literal value.
//
// Ranking only looks at the first shard while bucketing reads every shard.
// This is a known approximation kept for parity with the dashboard charts.
func Classify(shards [][]model.Record, names map[string]string, cfg Config) model.Series {
	topN := cfg.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	top := rank(firstShard(shards), names, cfg.Decimals, topN)

	buckets := make(map[int64]*model.TimePoint)
	for _, shard := range shards {
		for _, rec := range shard {
			volume, ok := rec.Scaled(FieldSwap, cfg.Decimals)
			if !ok || volume == 0 {
				continue
			}
			ts, ok := rec.Int(model.KeyTimestamp)
			if !ok {
				continue
			}
			day := series.Bucket(ts, series.DaySeconds)
			p, ok := buckets[day]
			if !ok {
				created := model.NewTimePoint(day)
				p = &created
				buckets[day] = p
			}
			name := resolve(rec, names)
			if _, kept := top[name]; !kept {
				name = Other
			}
			p.Set(name, p.Value(name)+volume)
			p.Set(model.KeyAll, p.Value(model.KeyAll)+volume)
		}
	}

	out := make(model.Series, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	out.Sort()
	return out
}

func firstShard(shards [][]model.Record) []model.Record {
	if len(shards) == 0 {
		return nil
	}
	return shards[0]
}

// rank returns the topN names by volume, ties broken by name.
func rank(records []model.Record, names map[string]string, decimals int32, topN int) map[string]struct{} {
	totals := make(map[string]float64)
	for _, rec := range records {
		volume, ok := rec.Scaled(FieldSwap, decimals)
		if !ok {
			continue
		}
		if _, ok := rec.Int(model.KeyTimestamp); !ok {
			continue
		}
		totals[resolve(rec, names)] += volume
	}
	ranked := make([]string, 0, len(totals))
	for name := range totals {
		ranked = append(ranked, name)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if totals[ranked[i]] != totals[ranked[j]] {
			return totals[ranked[i]] > totals[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make(map[string]struct{}, len(ranked))
	for _, name := range ranked {
		out[name] = struct{}{}
	}
	return out
}

func resolve(rec model.Record, names map[string]string) string {
	source := rec.String(FieldSource)
	if name, ok := names[source]; ok {
		return name
	}
	if name, ok := names[strings.ToLower(source)]; ok {
		return name
	}
	return source
}
