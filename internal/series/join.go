package series

import (
	"sort"

	"perpStats/internal/model"
)

// Window is an inclusive time range in unix seconds. A zero bound is open.
type Window struct {
	From int64
	To   int64
}

func (w Window) contains(ts int64) bool {
	if w.From > 0 && ts < w.From {
		return false
	}
	if w.To > 0 && ts > w.To {
		return false
	}
	return true
}

// Side is one input's contribution to a joined row.
type Side struct {
	Point model.TimePoint
	// Present is false when the input has no point at or before the row timestamp.
	Present bool
	// Carried is true when Point came from an earlier timestamp.
	Carried bool
}

// Value returns the side's value for key, absent when the side is absent.
func (s Side) Value(key string) (float64, bool) {
	if !s.Present {
		return 0, false
	}
	return s.Point.Get(key)
}

// Row aligns all inputs at one timestamp. Sides follow input order.
type Row struct {
	Timestamp int64
	Sides     []Side
}

// Join aligns inputs on the union of their timestamps inside the window.
// ok is false when any input has no point inside the window.
func Join(w Window, inputs ...model.Series) ([]Row, bool) {
	if len(inputs) == 0 {
		return nil, false
	}
	seen := make(map[int64]struct{})
	for _, in := range inputs {
		for _, p := range in {
			if w.contains(p.Timestamp) {
				seen[p.Timestamp] = struct{}{}
			}
		}
	}
	targets := make([]int64, 0, len(seen))
	for ts := range seen {
		targets = append(targets, ts)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return align(w, targets, inputs)
}

// JoinOn aligns others on the driver's timestamps inside the window. The
// driver is Sides[0] of every row.
func JoinOn(w Window, driver model.Series, others ...model.Series) ([]Row, bool) {
	targets := make([]int64, 0, len(driver))
	for _, p := range driver {
		if w.contains(p.Timestamp) {
			targets = append(targets, p.Timestamp)
		}
	}
	inputs := append([]model.Series{driver}, others...)
	return align(w, targets, inputs)
}

func align(w Window, targets []int64, inputs []model.Series) ([]Row, bool) {
	for _, in := range inputs {
		if !hasPointIn(w, in) {
			return nil, false
		}
	}
	if len(targets) == 0 {
		return nil, false
	}

	cursors := make([]int, len(inputs))
	rows := make([]Row, 0, len(targets))
	for _, ts := range targets {
		row := Row{Timestamp: ts, Sides: make([]Side, len(inputs))}
		for i, in := range inputs {
			// advance to the last point at or before ts
			for cursors[i] < len(in) && in[cursors[i]].Timestamp <= ts {
				cursors[i]++
			}
			if cursors[i] == 0 {
				continue
			}
			p := in[cursors[i]-1]
			row.Sides[i] = Side{Point: p, Present: true, Carried: p.Timestamp != ts}
		}
		rows = append(rows, row)
	}
	return rows, true
}

func hasPointIn(w Window, s model.Series) bool {
	for _, p := range s {
		if w.contains(p.Timestamp) {
			return true
		}
	}
	return false
}
