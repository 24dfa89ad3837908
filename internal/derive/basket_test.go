package derive

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBasketSeedsStartPrice(t *testing.T) {
	b, err := NewBasket(1.19, []Asset{{"BTC", 0.25}, {"ETH", 0.25}}, map[string]float64{"BTC": 40000, "ETH": 3000})
	require.NoError(t, err)

	price, ok := b.Price(map[string]float64{"BTC": 40000, "ETH": 3000})
	require.True(t, ok)
	assert.InDelta(t, 1.19, price, 1e-12)
	assert.InDelta(t, 0.5, b.StableWeight(), 1e-12)
	assert.InDelta(t, 1.19*0.5, b.Units(StableSymbol), 1e-12)
}

func TestBasketRejectsInvalidWeights(t *testing.T) {
	first := map[string]float64{"BTC": 1, "ETH": 1}
	_, err := NewBasket(1, []Asset{{"BTC", 0.7}, {"ETH", 0.4}}, first)
	assert.True(t, errors.Is(err, ErrInvalidBasket))

	_, err = NewBasket(1, []Asset{{"BTC", -0.1}}, first)
	assert.True(t, errors.Is(err, ErrInvalidBasket))

	_, err = NewBasket(1, []Asset{{"BTC", 0.5}, {"BTC", 0.1}}, first)
	assert.True(t, errors.Is(err, ErrInvalidBasket))

	_, err = NewBasket(1, []Asset{{"AVAX", 0.5}}, first)
	assert.True(t, errors.Is(err, ErrInvalidBasket))

	_, err = NewBasket(0, []Asset{{"BTC", 0.5}}, first)
	assert.True(t, errors.Is(err, ErrInvalidBasket))
}

func TestBasketWeightConservation(t *testing.T) {
	assets := []Asset{{"BTC", 0.166}, {"ETH", 0.166}, {"AVAX", 0.166}}
	prices := map[string]float64{"BTC": 45000, "ETH": 3200, "AVAX": 60}
	b, err := NewBasket(1.19, assets, prices)
	require.NoError(t, err)

	for day := 0; day < 60; day++ {
		prices = map[string]float64{
			"BTC":  45000 * (1 + 0.3*math.Sin(float64(day)/7)),
			"ETH":  3200 * (1 + 0.4*math.Cos(float64(day)/5)),
			"AVAX": 60 * (1 + 0.5*math.Sin(float64(day)/3)),
		}
		price, ok := b.Price(prices)
		require.True(t, ok)
		require.NoError(t, b.Rebalance(price, prices))

		weights, ok := b.Weights(prices)
		require.True(t, ok)
		var sum float64
		for _, w := range weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "day %d", day)
		assert.InDelta(t, 0.166, weights["BTC"], 1e-9)
		assert.InDelta(t, 1-3*0.166, weights[StableSymbol], 1e-9)
	}
}

func TestBasketCompoundsDailyRebalance(t *testing.T) {
	b, err := NewBasket(1, []Asset{{"X", 0.5}}, map[string]float64{"X": 1})
	require.NoError(t, err)

	day1 := map[string]float64{"X": 2}
	p1, _ := b.Price(day1)
	assert.InDelta(t, 1.5, p1, 1e-12)
	require.NoError(t, b.Rebalance(p1, day1))

	day2 := map[string]float64{"X": 1}
	p2, _ := b.Price(day2)
	// buy-and-hold would be back at 1.0
	assert.InDelta(t, 1.125, p2, 1e-12)
}

func TestBasketPriceNeedsEveryAsset(t *testing.T) {
	b, err := NewBasket(1, []Asset{{"BTC", 0.5}}, map[string]float64{"BTC": 10})
	require.NoError(t, err)
	_, ok := b.Price(map[string]float64{"ETH": 1})
	assert.False(t, ok)
	assert.Error(t, b.Rebalance(1, map[string]float64{"BTC": 0}))
}
