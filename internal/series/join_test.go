package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/model"
)

func TestJoinCarriesForwardOwnSeries(t *testing.T) {
	fees := model.Series{point(0, "all", 1), point(DaySeconds, "all", 2), point(2*DaySeconds, "all", 3)}
	pool := model.Series{point(0, "aum", 100), point(2*DaySeconds, "aum", 300)}

	rows, ok := Join(Window{}, fees, pool)
	require.True(t, ok)
	require.Len(t, rows, 3)

	aum, present := rows[1].Sides[1].Value("aum")
	assert.True(t, present)
	assert.Equal(t, 100.0, aum)
	assert.True(t, rows[1].Sides[1].Carried)
	assert.False(t, rows[2].Sides[1].Carried)
}

func TestJoinAbsentBeforeFirstPoint(t *testing.T) {
	a := model.Series{point(0, "v", 1), point(DaySeconds, "v", 2)}
	b := model.Series{point(DaySeconds, "w", 5)}

	rows, ok := Join(Window{}, a, b)
	require.True(t, ok)

	_, present := rows[0].Sides[1].Value("w")
	assert.False(t, present)
}

func TestJoinNoDataWhenSideEmptyInWindow(t *testing.T) {
	a := model.Series{point(0, "v", 1), point(5*DaySeconds, "v", 2)}
	b := model.Series{point(0, "w", 1)}

	rows, ok := Join(Window{From: DaySeconds}, a, b)
	assert.False(t, ok)
	assert.Nil(t, rows)

	_, ok = Join(Window{}, a, nil)
	assert.False(t, ok)
}

func TestJoinOnUsesDriverTimestamps(t *testing.T) {
	prices := model.Series{point(DaySeconds, "p", 10), point(3*DaySeconds, "p", 11)}
	other := model.Series{point(0, "x", 1), point(2*DaySeconds, "x", 2), point(4*DaySeconds, "x", 3)}

	rows, ok := JoinOn(Window{}, prices, other)
	require.True(t, ok)

	assert.Equal(t, []int64{DaySeconds, 3 * DaySeconds}, []int64{rows[0].Timestamp, rows[1].Timestamp})
	x, _ := rows[1].Sides[1].Value("x")
	assert.Equal(t, 2.0, x)
}
