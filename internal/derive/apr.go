package derive

import (
	"math"

	"perpStats/internal/model"
	"perpStats/internal/series"
)

// SanityCeiling caps APR and usage percentages. Larger values come from a
// near-zero AUM and are reported as absent.
const SanityCeiling = 10000.0

// Output keys of PoolPerformance.
const (
	KeyAPR          = "apr"
	KeyUsage        = "usage"
	KeyAverageAPR   = "averageApr"
	KeyAverageUsage = "averageUsage"
)

// APR annualizes one period of fees against the pool AUM, in percent.
func APR(fees, aum float64, period int64) (float64, bool) {
	return ceiled(ratio(fees, aum) * 100 * 365 * dailyCoef(period))
}

// Usage is the volume turnover of the pool AUM for one period, in percent per day.
func Usage(volume, aum float64, period int64) (float64, bool) {
	return ceiled(ratio(volume, aum) * 100 * dailyCoef(period))
}

// PoolPerformance computes apr and usage for joined rows whose sides are, in
// order, the aggregated fees, the pool series and the aggregated volume.
// The averages divide by the row count and count absent values as zero.
func PoolPerformance(rows []series.Row, period int64) model.Series {
	out := make(model.Series, 0, len(rows))
	var aprSum, usageSum float64
	for _, row := range rows {
		p := model.NewTimePoint(row.Timestamp)
		fees, _ := sideValue(row, 0, model.KeyAll)
		aum, _ := sideValue(row, 1, KeyAUM)
		volume, _ := sideValue(row, 2, model.KeyAll)

		if apr, ok := APR(fees, aum, period); ok {
			p.Set(KeyAPR, apr)
			aprSum += apr
		}
		if usage, ok := Usage(volume, aum, period); ok {
			p.Set(KeyUsage, usage)
			usageSum += usage
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return out
	}
	for i := range out {
		out[i].Set(KeyAverageAPR, aprSum/float64(len(out)))
		out[i].Set(KeyAverageUsage, usageSum/float64(len(out)))
	}
	return out
}

func dailyCoef(period int64) float64 {
	if period <= 0 {
		period = series.DaySeconds
	}
	return float64(series.DaySeconds) / float64(period)
}

// ratio is NaN when either side is zero so the result is dropped downstream.
func ratio(num, den float64) float64 {
	if num == 0 || den == 0 {
		return math.NaN()
	}
	return num / den
}

func ceiled(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v > SanityCeiling {
		return 0, false
	}
	return v, true
}

func sideValue(row series.Row, i int, key string) (float64, bool) {
	if i >= len(row.Sides) {
		return 0, false
	}
	return row.Sides[i].Value(key)
}
