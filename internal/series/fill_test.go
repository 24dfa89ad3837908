package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"perpStats/internal/model"
)

func TestFillForwardScenario(t *testing.T) {
	in := model.Series{point(0, "x", 5), model.NewTimePoint(1), point(2, "x", 7)}
	in[1].Values["x"] = math.NaN()

	got := FillForward(in, []string{"x"})

	assert.Equal(t, []float64{5, 5, 7}, []float64{got[0].Value("x"), got[1].Value("x"), got[2].Value("x")})
	assert.True(t, math.IsNaN(in[1].Values["x"]), "input must not be mutated")
}

func TestFillForwardNoPriorValueStaysAbsent(t *testing.T) {
	in := model.Series{model.NewTimePoint(0), point(1, "x", 0), point(2, "x", 3), point(3, "y", 1)}

	got := FillForward(in, []string{"x", "y"})

	_, ok := got[0].Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0.0, got[1].Value("x"))
	assert.Equal(t, 3.0, got[3].Value("x"))
	_, ok = got[2].Get("y")
	assert.False(t, ok)
}

func TestFillForwardNearestPrecedingValue(t *testing.T) {
	in := model.Series{
		point(0, "a", 1), model.NewTimePoint(1), point(2, "a", 2),
		model.NewTimePoint(3), model.NewTimePoint(4), point(5, "a", 9),
	}

	got := FillForward(in, Keys(in))

	want := []float64{1, 1, 2, 2, 2, 9}
	for i, p := range got {
		assert.Equal(t, want[i], p.Value("a"), "index %d", i)
	}
}

func TestFillForwardIgnoresIdentityKeys(t *testing.T) {
	in := model.Series{point(0, "id", 10, "v", 1), point(1, "v", 0)}

	got := FillForward(in, []string{"id", "timestamp", "v"})

	_, ok := got[1].Get("id")
	assert.False(t, ok)
	assert.Equal(t, int64(1), got[1].Timestamp)
	assert.Equal(t, 1.0, got[1].Value("v"))
}
