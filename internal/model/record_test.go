package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordScaledParsesBigIntStrings(t *testing.T) {
	rec := Record{
		"swap":   "1500000000000000000000000000000000",
		"margin": json.Number("2000000000000000000000000000000"),
		"bad":    "not-a-number",
		"empty":  "",
	}

	swap, ok := rec.Scaled("swap", 30)
	require.True(t, ok)
	assert.InDelta(t, 1500.0, swap, 1e-9)

	margin, ok := rec.Scaled("margin", 30)
	require.True(t, ok)
	assert.InDelta(t, 2.0, margin, 1e-9)

	_, ok = rec.Scaled("bad", 30)
	assert.False(t, ok)
	_, ok = rec.Scaled("empty", 30)
	assert.False(t, ok)
	_, ok = rec.Scaled("missing", 30)
	assert.False(t, ok)
}

func TestRecordIntAcceptsStringAndNumber(t *testing.T) {
	rec := Record{"id": "1630368000", "timestamp": float64(1630454400), "nan": math.NaN()}

	id, ok := rec.Int("id")
	require.True(t, ok)
	assert.Equal(t, int64(1630368000), id)

	ts, ok := rec.Int("timestamp")
	require.True(t, ok)
	assert.Equal(t, int64(1630454400), ts)

	_, ok = rec.Int("nan")
	assert.False(t, ok)
}

func TestTimePointJSONIsFlat(t *testing.T) {
	p := NewTimePoint(86400)
	p.Set("swap", 5)
	p.Set("broken", math.Inf(1))

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":86400,"swap":5}`, string(data))

	var decoded TimePoint
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestSeriesWindow(t *testing.T) {
	s := Series{NewTimePoint(0), NewTimePoint(86400), NewTimePoint(172800)}

	assert.Equal(t, []int64{86400, 172800}, s.Window(86400, 0).Timestamps())
	assert.Equal(t, []int64{0, 86400}, s.Window(0, 86400).Timestamps())
}
