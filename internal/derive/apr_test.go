package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/model"
	"perpStats/internal/series"
)

func TestAPRScenario(t *testing.T) {
	apr, ok := APR(10, 1000, 86400)
	require.True(t, ok)
	assert.InDelta(t, 365.0, apr, 1e-9)
}

func TestAPRScalesWithPeriod(t *testing.T) {
	apr, ok := APR(10, 1000, 3600)
	require.True(t, ok)
	assert.InDelta(t, 365.0*24, apr, 1e-6)
}

func TestAPRAbsentOnZeroAndCeiling(t *testing.T) {
	_, ok := APR(10, 0, 86400)
	assert.False(t, ok)
	_, ok = APR(0, 1000, 86400)
	assert.False(t, ok)
	// 1000/1000*100*365 = 36500 > ceiling
	_, ok = APR(1000, 1000, 86400)
	assert.False(t, ok)
}

func TestUsage(t *testing.T) {
	usage, ok := Usage(500, 1000, 86400)
	require.True(t, ok)
	assert.InDelta(t, 50.0, usage, 1e-9)

	_, ok = Usage(200, 1, 86400)
	assert.False(t, ok)
}

func TestPoolPerformanceAverages(t *testing.T) {
	fees := model.Series{pt(0, model.KeyAll, 10), pt(86400, model.KeyAll, 20), pt(172800, model.KeyAll, 5)}
	pool := model.Series{pt(0, KeyAUM, 1000), pt(86400, KeyAUM, 1000), pt(172800, KeyAUM, 0.0001)}
	volume := model.Series{pt(0, model.KeyAll, 100), pt(86400, model.KeyAll, 300)}

	rows, ok := series.JoinOn(series.Window{}, fees, pool, volume)
	require.True(t, ok)
	out := PoolPerformance(rows, series.DaySeconds)
	require.Len(t, out, 3)

	assert.InDelta(t, 365.0, out[0].Value(KeyAPR), 1e-9)
	assert.InDelta(t, 730.0, out[1].Value(KeyAPR), 1e-9)
	_, ok = out[2].Get(KeyAPR)
	assert.False(t, ok, "near-zero aum must be absent")

	// absent values count as zero in the mean
	assert.InDelta(t, (365.0+730.0)/3, out[2].Value(KeyAverageAPR), 1e-9)
	assert.InDelta(t, (10.0+30.0)/3, out[0].Value(KeyAverageUsage), 1e-9)
}

func pt(ts int64, kv ...interface{}) model.TimePoint {
	p := model.NewTimePoint(ts)
	for i := 0; i+1 < len(kv); i += 2 {
		switch v := kv[i+1].(type) {
		case int:
			p.Set(kv[i].(string), float64(v))
		case float64:
			p.Set(kv[i].(string), v)
		}
	}
	return p
}
