package series

import (
	"fmt"
	"sort"

	"perpStats/internal/model"
)

// PivotConfig reshapes (timestamp, key, value) rows into one point per bucket.
type PivotConfig struct {
	TimestampField string
	Size           int64
	KeyField       string
	ValueField     string
	Decimals       int32
	// Rename maps a raw key (e.g. a token address) to its column name.
	Rename func(raw string) string
	// Skip drops rows whose column name matches.
	Skip func(column string) bool
	// Total adds an "all" column holding the sum of the columns.
	Total bool
}

// Pivot turns long rows into a wide series. The last row written for a
// (bucket, column) pair wins. It also returns the sorted column names seen.
func Pivot(records []model.Record, cfg PivotConfig) (model.Series, []string, error) {
	field := cfg.TimestampField
	if field == "" {
		field = model.KeyTimestamp
	}
	columns := make(map[string]struct{})
	m := newMerger(cfg.Size, nil)

	for i, rec := range records {
		ts, ok := rec.Int(field)
		if !ok {
			return nil, nil, fmt.Errorf("record %d: %w %q", i, ErrMissingTimestamp, field)
		}
		column := rec.String(cfg.KeyField)
		if cfg.Rename != nil {
			column = cfg.Rename(column)
		}
		if column == "" || (cfg.Skip != nil && cfg.Skip(column)) {
			continue
		}
		value, ok := rec.Scaled(cfg.ValueField, cfg.Decimals)
		if !ok {
			continue
		}
		columns[column] = struct{}{}
		p := m.point(ts)
		p.Set(column, value)
	}

	out := m.series()
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	if cfg.Total {
		for i := range out {
			var all float64
			for _, name := range names {
				all += out[i].Value(name)
			}
			out[i].Set(model.KeyAll, all)
		}
	}
	return out, names, nil
}
