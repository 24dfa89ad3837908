package series

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/model"
)

func TestBucketFloorsToDay(t *testing.T) {
	assert.Equal(t, int64(0), Bucket(86399, DaySeconds))
	assert.Equal(t, int64(86400), Bucket(86400, DaySeconds))
	assert.Equal(t, int64(86400), Bucket(100000, 0))
	assert.Equal(t, int64(-86400), Bucket(-1, DaySeconds))
	assert.Equal(t, int64(3600), Bucket(7199, 3600))
}

func TestBucketRecordsSumsAndKeepsLastSnapshot(t *testing.T) {
	records := []model.Record{
		{"id": "86500", "swap": "1000000000000000000000000000000", "aum": "100"},
		{"id": "90000", "swap": "2000000000000000000000000000000", "aum": "150"},
		{"id": "0", "swap": "5000000000000000000000000000000", "aum": "50"},
	}

	got, err := BucketRecords(records, BucketConfig{
		TimestampField: "id",
		Snapshot:       []string{"aum"},
		Decimals:       map[string]int32{"swap": 30},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(0), got[0].Timestamp)
	assert.InDelta(t, 5.0, got[0].Value("swap"), 1e-9)
	assert.InDelta(t, 50.0, got[0].Value("aum"), 1e-9)

	assert.Equal(t, int64(86400), got[1].Timestamp)
	assert.InDelta(t, 3.0, got[1].Value("swap"), 1e-9)
	assert.InDelta(t, 150.0, got[1].Value("aum"), 1e-9)
	_, hasID := got[1].Get("id")
	assert.False(t, hasID)
}

func TestBucketRecordsTimestampFieldIsConfiguration(t *testing.T) {
	records := []model.Record{{"timestamp": float64(86400), "id": "0", "swap": float64(3)}}

	byTimestamp, err := BucketRecords(records, BucketConfig{TimestampField: "timestamp", Fields: []string{"swap"}})
	require.NoError(t, err)
	assert.Equal(t, int64(86400), byTimestamp[0].Timestamp)

	byID, err := BucketRecords(records, BucketConfig{TimestampField: "id", Fields: []string{"swap"}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), byID[0].Timestamp)
}

func TestBucketRecordsFailsOnMissingTimestamp(t *testing.T) {
	_, err := BucketRecords([]model.Record{{"swap": 1.0}}, BucketConfig{TimestampField: "id"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTimestamp))
}

func TestBucketRecordsSkipsNonNumericValues(t *testing.T) {
	got, err := BucketRecords([]model.Record{
		{"timestamp": "0", "swap": "oops", "margin": 2.0},
	}, BucketConfig{})
	require.NoError(t, err)
	_, ok := got[0].Get("swap")
	assert.False(t, ok)
	assert.Equal(t, 2.0, got[0].Value("margin"))
}

func TestRebucketIsIdempotent(t *testing.T) {
	raw := model.Series{point(10, "swap", 1), point(20, "swap", 2), point(90000, "swap", 4)}

	once := Rebucket(raw, DaySeconds)
	twice := Rebucket(once, DaySeconds)

	assert.Equal(t, once, twice)
	require.Len(t, once, 2)
	assert.Equal(t, 3.0, once[0].Value("swap"))
}

func TestPivotBuildsColumnsAndTotal(t *testing.T) {
	records := []model.Record{
		{"timestamp": "0", "token": "0xAAA", "poolAmountUsd": "2000000000000000000000000000000"},
		{"timestamp": "0", "token": "0xbbb", "poolAmountUsd": "3000000000000000000000000000000"},
		{"timestamp": "86400", "token": "0xaaa", "poolAmountUsd": "1000000000000000000000000000000"},
		{"timestamp": "86400", "token": "0xskip", "poolAmountUsd": "1000000000000000000000000000000"},
	}
	names := map[string]string{"0xaaa": "BTC", "0xbbb": "ETH", "0xskip": "MIM"}

	got, columns, err := Pivot(records, PivotConfig{
		KeyField:   "token",
		ValueField: "poolAmountUsd",
		Decimals:   30,
		Rename:     func(raw string) string { return names[strings.ToLower(raw)] },
		Skip:       func(column string) bool { return column == "MIM" },
		Total:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC", "ETH"}, columns)
	require.Len(t, got, 2)
	assert.InDelta(t, 5.0, got[0].Value(model.KeyAll), 1e-9)
	assert.InDelta(t, 1.0, got[1].Value("BTC"), 1e-9)
	_, ok := got[1].Get("ETH")
	assert.False(t, ok)
}

func point(ts int64, kv ...interface{}) model.TimePoint {
	p := model.NewTimePoint(ts)
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i].(string), toFloat(kv[i+1]))
	}
	return p
}

func toFloat(v interface{}) float64 {
	switch typed := v.(type) {
	case int:
		return float64(typed)
	case float64:
		return typed
	default:
		panic("unsupported value")
	}
}
