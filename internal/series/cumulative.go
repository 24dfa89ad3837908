package series

import "perpStats/internal/model"

// MovingAverageDays is the trailing window of movingAverageAll.
const MovingAverageDays = 7

// AggregateOptions tunes Aggregate.
type AggregateOptions struct {
	// MovingAverageDays overrides the default window when positive.
	MovingAverageDays int
	// PerCategory also emits "<category>Cumulative" running sums.
	PerCategory bool
}

// cumulativeState is owned by one Aggregate call.
type cumulativeState struct {
	total       float64
	byTimestamp map[int64]float64
	perCategory map[string]float64
}

// Aggregate adds all, cumulative and movingAverageAll to every point of an
// ascending series. Every category of cats is present on the output points.
func Aggregate(s model.Series, cats model.CategorySet, opts AggregateOptions) model.Series {
	days := opts.MovingAverageDays
	if days <= 0 {
		days = MovingAverageDays
	}
	period := int64(days) * DaySeconds
	keys := cats.Keys()

	state := cumulativeState{
		byTimestamp: make(map[int64]float64, len(s)),
		perCategory: make(map[string]float64, len(keys)),
	}

	out := make(model.Series, len(s))
	for i, in := range s {
		p := in.Clone()

		var all float64
		for _, key := range keys {
			v := p.Value(key)
			p.Set(key, v)
			all += p.Value(key)
			if opts.PerCategory {
				state.perCategory[key] += p.Value(key)
				p.Set(key+"Cumulative", state.perCategory[key])
			}
		}
		state.total += all

		p.Set(model.KeyAll, all)
		p.Set(model.KeyCumulative, state.total)
		p.Delete(model.KeyMovingAverageAll)
		if then, ok := state.byTimestamp[p.Timestamp-period]; ok {
			p.Set(model.KeyMovingAverageAll, (state.total-then)/float64(days))
		}
		state.byTimestamp[p.Timestamp] = state.total
		out[i] = p
	}
	return out
}
