package series

import (
	"errors"
	"fmt"
	"sort"

	"perpStats/internal/model"
)

// DaySeconds is the daily bucket width.
const DaySeconds int64 = 86400

// ErrMissingTimestamp marks a record whose configured timestamp field is absent or not an integer.
var ErrMissingTimestamp = errors.New("missing timestamp field")

// BucketConfig controls how raw records collapse into buckets.
type BucketConfig struct {
	// TimestampField names the field holding unix seconds ("timestamp" or "id").
	TimestampField string
	// Size is the bucket width in seconds. Zero means DaySeconds.
	Size int64
	// Fields restricts the value fields read from each record. Empty means every
	// numeric field except the identity keys.
	Fields []string
	// Snapshot fields keep the last written value instead of being summed.
	Snapshot []string
	// Decimals scales fixed-point fields by 10^-n before merging.
	Decimals map[string]int32
}

// Bucket floors ts to a multiple of size.
func Bucket(ts, size int64) int64 {
	if size <= 0 {
		size = DaySeconds
	}
	b := ts / size
	if ts%size != 0 && ts < 0 {
		b--
	}
	return b * size
}

// BucketRecords merges raw records into an ascending series with one point per bucket.
func BucketRecords(records []model.Record, cfg BucketConfig) (model.Series, error) {
	field := cfg.TimestampField
	if field == "" {
		field = model.KeyTimestamp
	}
	size := cfg.Size
	if size <= 0 {
		size = DaySeconds
	}
	snapshot := toSet(cfg.Snapshot)

	m := newMerger(size, snapshot)
	for i, rec := range records {
		ts, ok := rec.Int(field)
		if !ok {
			return nil, fmt.Errorf("record %d: %w %q", i, ErrMissingTimestamp, field)
		}
		point := m.point(ts)
		for _, key := range valueFields(rec, field, cfg.Fields) {
			value, ok := rec.Scaled(key, cfg.Decimals[key])
			if !ok {
				continue
			}
			m.merge(point, key, value)
		}
	}
	return m.series(), nil
}

// Rebucket merges already-built points into buckets of the given size.
// Bucketing an already-bucketed series is a no-op.
func Rebucket(s model.Series, size int64, snapshot ...string) model.Series {
	m := newMerger(size, toSet(snapshot))
	for _, p := range s {
		point := m.point(p.Timestamp)
		for key, value := range p.Values {
			m.merge(point, key, value)
		}
	}
	return m.series()
}

type merger struct {
	size     int64
	snapshot map[string]struct{}
	points   map[int64]*model.TimePoint
}

func newMerger(size int64, snapshot map[string]struct{}) *merger {
	if size <= 0 {
		size = DaySeconds
	}
	return &merger{size: size, snapshot: snapshot, points: make(map[int64]*model.TimePoint)}
}

func (m *merger) point(ts int64) *model.TimePoint {
	bucket := Bucket(ts, m.size)
	p, ok := m.points[bucket]
	if !ok {
		created := model.NewTimePoint(bucket)
		p = &created
		m.points[bucket] = p
	}
	return p
}

func (m *merger) merge(p *model.TimePoint, key string, value float64) {
	if _, ok := m.snapshot[key]; ok {
		p.Set(key, value)
		return
	}
	p.Set(key, p.Value(key)+value)
}

func (m *merger) series() model.Series {
	out := make(model.Series, 0, len(m.points))
	for _, p := range m.points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

func valueFields(rec model.Record, tsField string, fields []string) []string {
	if len(fields) > 0 {
		return fields
	}
	keys := make([]string, 0, len(rec))
	for key := range rec {
		if key == tsField || key == model.KeyTimestamp || key == model.KeyID {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func toSet(keys []string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}
