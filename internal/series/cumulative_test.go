package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/model"
)

func TestAggregateScenario(t *testing.T) {
	in := model.Series{point(0, "swap", 100), point(86400, "swap", 50, "margin", 10)}

	got := Aggregate(in, model.TradeCategories, AggregateOptions{})

	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].Value(model.KeyAll))
	assert.Equal(t, 100.0, got[0].Value(model.KeyCumulative))
	assert.Equal(t, 60.0, got[1].Value(model.KeyAll))
	assert.Equal(t, 160.0, got[1].Value(model.KeyCumulative))

	for _, key := range model.TradeCategories.Keys() {
		_, ok := got[0].Get(key)
		assert.True(t, ok, "category %s must be present", key)
	}
	_, ok := got[1].Get(model.KeyMovingAverageAll)
	assert.False(t, ok)
}

func TestAggregateCumulativeLaw(t *testing.T) {
	var in model.Series
	for i := 0; i < 20; i++ {
		in = append(in, point(int64(i)*DaySeconds, "swap", float64(i*3+1), "burn", float64(i%4)))
	}

	got := Aggregate(in, model.TradeCategories, AggregateOptions{})

	assert.Equal(t, got[0].Value(model.KeyAll), got[0].Value(model.KeyCumulative))
	for i := 1; i < len(got); i++ {
		assert.Equal(t, got[i-1].Value(model.KeyCumulative)+got[i].Value(model.KeyAll), got[i].Value(model.KeyCumulative))
	}
}

func TestAggregateMovingAverageIdentity(t *testing.T) {
	// day 3 is missing, so day 10 has no matching point 7 days back
	var in model.Series
	for day := int64(0); day < 15; day++ {
		if day == 3 {
			continue
		}
		in = append(in, point(day*DaySeconds, "margin", float64(day+1)))
	}

	got := Aggregate(in, model.TradeCategories, AggregateOptions{})

	byTs := make(map[int64]model.TimePoint, len(got))
	for _, p := range got {
		byTs[p.Timestamp] = p
	}
	for _, p := range got {
		ma, ok := p.Get(model.KeyMovingAverageAll)
		then, hasThen := byTs[p.Timestamp-7*DaySeconds]
		assert.Equal(t, hasThen, ok, "ts %d", p.Timestamp)
		if hasThen {
			assert.Equal(t, (p.Value(model.KeyCumulative)-then.Value(model.KeyCumulative))/7, ma)
		}
	}
	_, ok := byTs[10*DaySeconds].Get(model.KeyMovingAverageAll)
	assert.False(t, ok)
}

func TestAggregatePerCategoryCumulative(t *testing.T) {
	cats := model.MustCategorySet("profit", "loss")
	in := model.Series{point(0, "profit", 3, "loss", -1), point(DaySeconds, "profit", 2)}

	got := Aggregate(in, cats, AggregateOptions{PerCategory: true})

	assert.Equal(t, 5.0, got[1].Value("profitCumulative"))
	assert.Equal(t, -1.0, got[1].Value("lossCumulative"))
	assert.Equal(t, 4.0, got[1].Value(model.KeyCumulative))
}
