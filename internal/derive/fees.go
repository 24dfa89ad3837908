package derive

import "math"

// RewardSchedule is the share of protocol fees paid to pool holders. It steps
// from Before to After at Cutover.
type RewardSchedule struct {
	Cutover int64
	Before  float64
	After   float64
}

// DefaultRewardSchedule raised the holder share from 50% to 70% on 2021-10-31.
var DefaultRewardSchedule = RewardSchedule{Cutover: 1635714000, Before: 0.5, After: 0.7}

func (r RewardSchedule) Share(ts int64) float64 {
	if ts >= r.Cutover {
		return r.After
	}
	return r.Before
}

// FeeAccrual sums per-share fee distributions over time.
type FeeAccrual struct {
	Schedule RewardSchedule
	Total    float64
}

// Add accrues one day of fees. Zero fees or supply add nothing.
func (f *FeeAccrual) Add(ts int64, fees, supply float64) {
	if fees == 0 || supply == 0 {
		return
	}
	v := fees / supply * f.Schedule.Share(ts)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	f.Total += v
}

// PerformanceRatio is num/den in percent rounded to two decimals.
func PerformanceRatio(num, den float64) (float64, bool) {
	if num == 0 || den == 0 {
		return 0, false
	}
	v := num / den * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Round(v*100) / 100, true
}
