package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// TimePoint is one bucket of a series. A key missing from Values is absent.
type TimePoint struct {
	Timestamp int64
	Values    map[string]float64
}

// Series is an ordered sequence of points, ascending by timestamp.
type Series []TimePoint

func NewTimePoint(ts int64) TimePoint {
	return TimePoint{Timestamp: ts, Values: make(map[string]float64)}
}

// Get returns the value for key and whether it is present.
func (p TimePoint) Get(key string) (float64, bool) {
	if p.Values == nil {
		return 0, false
	}
	v, ok := p.Values[key]
	return v, ok
}

// Value returns the value for key or zero.
func (p TimePoint) Value(key string) float64 {
	v, _ := p.Get(key)
	return v
}

// Set stores a value. Non-finite values are dropped so they never reach consumers.
func (p *TimePoint) Set(key string, value float64) {
	if p.Values == nil {
		p.Values = make(map[string]float64)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		delete(p.Values, key)
		return
	}
	p.Values[key] = value
}

// SetOptional stores value when ok, otherwise removes the key.
func (p *TimePoint) SetOptional(key string, value float64, ok bool) {
	if !ok {
		p.Delete(key)
		return
	}
	p.Set(key, value)
}

func (p *TimePoint) Delete(key string) {
	if p.Values != nil {
		delete(p.Values, key)
	}
}

// Clone returns a deep copy of the point.
func (p TimePoint) Clone() TimePoint {
	out := TimePoint{Timestamp: p.Timestamp, Values: make(map[string]float64, len(p.Values))}
	for k, v := range p.Values {
		out.Values[k] = v
	}
	return out
}

// MarshalJSON encodes the point as a flat chart record.
func (p TimePoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(p.Values)+1)
	for k, v := range p.Values {
		flat[k] = v
	}
	flat[KeyTimestamp] = p.Timestamp
	return json.Marshal(flat)
}

// UnmarshalJSON decodes a flat chart record.
func (p *TimePoint) UnmarshalJSON(data []byte) error {
	var flat map[string]json.Number
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	raw, ok := flat[KeyTimestamp]
	if !ok {
		return fmt.Errorf("missing %s", KeyTimestamp)
	}
	ts, err := raw.Int64()
	if err != nil {
		return fmt.Errorf("parse %s: %w", KeyTimestamp, err)
	}
	point := NewTimePoint(ts)
	for k, v := range flat {
		if k == KeyTimestamp {
			continue
		}
		f, err := v.Float64()
		if err != nil {
			return fmt.Errorf("parse %s: %w", k, err)
		}
		point.Values[k] = f
	}
	*p = point
	return nil
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = p.Clone()
	}
	return out
}

// Sort orders the series ascending by timestamp, keeping input order for ties.
func (s Series) Sort() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Timestamp < s[j].Timestamp })
}

// Window keeps points with from <= timestamp <= to. A zero bound is open.
func (s Series) Window(from, to int64) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if from > 0 && p.Timestamp < from {
			continue
		}
		if to > 0 && p.Timestamp > to {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s Series) Timestamps() []int64 {
	out := make([]int64, len(s))
	for i, p := range s {
		out[i] = p.Timestamp
	}
	return out
}
