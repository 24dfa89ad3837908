package derive

import "math"

// ImpermanentLoss of a 50/50 constant-product position after the price moved by ratio r.
func ImpermanentLoss(r float64) float64 {
	return 2*math.Sqrt(r)/(1+r) - 1
}

// LPBenchmark values a 50/50 asset/stable LP position opened at EntryPrice.
type LPBenchmark struct {
	Units          float64
	HalfEntryValue float64
	EntryPrice     float64
}

// NewLPBenchmark splits startValue evenly between the asset and the stable side.
func NewLPBenchmark(startValue, entryPrice float64) LPBenchmark {
	lp := LPBenchmark{HalfEntryValue: startValue / 2, EntryPrice: entryPrice}
	if entryPrice > 0 {
		lp.Units = startValue * 0.5 / entryPrice
	}
	return lp
}

// Value prices the position at p.
func (lp LPBenchmark) Value(p float64) (float64, bool) {
	if p <= 0 || lp.EntryPrice <= 0 {
		return 0, false
	}
	v := (lp.Units*p + lp.HalfEntryValue) * (1 + ImpermanentLoss(p/lp.EntryPrice))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
