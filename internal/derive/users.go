package derive

import (
	"fmt"
	"math"
	"sort"

	"perpStats/internal/model"
	"perpStats/internal/series"
)

// userTypes are the suffixes of the userStats count fields; "" is the total.
var userTypes = []string{"", "Swap", "Margin", "MintBurn"}

// User series keys.
const (
	KeyUniqueSum              = "uniqueSum"
	KeyOldCount               = "oldCount"
	KeyOldPercent             = "oldPercent"
	KeyCumulativeNewUserCount = "cumulativeNewUserCount"
)

// UserSeries derives new and returning user counts from daily userStats
// records. New users per type come from the delta of the cumulative unique
// count, or the daily unique count before any cumulative value is known.
func UserSeries(records []model.Record) (model.Series, error) {
	sorted, err := sortByTimestamp(records, "user")
	if err != nil {
		return nil, err
	}

	prevCumulative := make(map[string]float64, len(userTypes))
	var cumulativeNew float64
	out := make(model.Series, 0, len(sorted))
	for _, item := range sorted {
		p := model.NewTimePoint(item.ts)
		copyNumbers(&p, item.rec)

		for _, typ := range userTypes {
			cum, _ := item.rec.Number("unique" + typ + "CountCumulative")
			var n float64
			if prev := prevCumulative[typ]; prev != 0 {
				n = cum - prev
			} else {
				n, _ = item.rec.Number("unique" + typ + "Count")
			}
			prevCumulative[typ] = cum
			p.Set("new"+typ+"Count", n)
		}

		unique := p.Value("uniqueCount")
		newCount := p.Value("newCount")
		cumulativeNew += newCount
		old := unique - newCount

		p.Set(model.KeyAll, unique)
		p.Set(KeyUniqueSum, p.Value("uniqueSwapCount")+p.Value("uniqueMarginCount")+p.Value("uniqueMintBurnCount"))
		p.Set(KeyOldCount, old)
		if unique != 0 {
			p.Set(KeyOldPercent, math.Round(old/unique*1000)/10)
		}
		p.Set(KeyCumulativeNewUserCount, cumulativeNew)
		out = append(out, p)
	}
	return out, nil
}

type stamped struct {
	ts  int64
	rec model.Record
}

func sortByTimestamp(records []model.Record, kind string) ([]stamped, error) {
	out := make([]stamped, 0, len(records))
	for i, rec := range records {
		ts, ok := rec.Int(model.KeyTimestamp)
		if !ok {
			return nil, fmt.Errorf("%s record %d: %w %q", kind, i, series.ErrMissingTimestamp, model.KeyTimestamp)
		}
		out = append(out, stamped{ts: ts, rec: rec})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ts < out[j].ts })
	return out, nil
}

// copyNumbers copies every numeric field except the identity keys.
func copyNumbers(p *model.TimePoint, rec model.Record) {
	for key := range rec {
		if key == model.KeyTimestamp || key == model.KeyID {
			continue
		}
		if v, ok := rec.Number(key); ok {
			p.Set(key, v)
		}
	}
}
