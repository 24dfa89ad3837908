package series

import (
	"math"
	"sort"

	"perpStats/internal/model"
)

// FillForward replaces absent, zero or NaN values of keys with the most recent
// prior present value of the same key. Identity keys are never touched and
// nothing is substituted before a key's first present value.
func FillForward(s model.Series, keys []string) model.Series {
	out := s.Clone()
	last := make(map[string]float64, len(keys))
	for i := range out {
		for _, key := range keys {
			if key == model.KeyTimestamp || key == model.KeyID {
				continue
			}
			v, ok := out[i].Get(key)
			if ok && v != 0 && !math.IsNaN(v) {
				last[key] = v
				continue
			}
			if prev, seen := last[key]; seen {
				out[i].Set(key, prev)
			}
		}
	}
	return out
}

// Keys returns the sorted union of value keys across the series.
func Keys(s model.Series) []string {
	seen := make(map[string]struct{})
	for _, p := range s {
		for key := range p.Values {
			seen[key] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
