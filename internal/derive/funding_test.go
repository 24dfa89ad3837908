package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/model"
)

func TestFundingRate(t *testing.T) {
	// 100 units over exactly one day
	rate, ok := FundingRate(1000, 1100, 0, 86400)
	require.True(t, ok)
	assert.InDelta(t, 100.0/10000*365, rate, 1e-12)

	// interval floors to whole hours
	floored, ok := FundingRate(1000, 1100, 0, 86400+1800)
	require.True(t, ok)
	assert.Equal(t, rate, floored)

	_, ok = FundingRate(0, 1100, 0, 86400)
	assert.False(t, ok)
	_, ok = FundingRate(1000, 1100, 0, 1800)
	assert.False(t, ok)
}

func TestFundingSeries(t *testing.T) {
	btc := "0x2f2a2543b76a4166549f7aab2e75bef0aefc5b0f"
	eth := "0x82af49447d8a07e3bd95bd0d56f35241523fbab1"
	mim := "0xfea7a6a0b346362bf88a9e4a88416b77a57d6c2a"
	day := func(ts int64, token string, start, end string) model.Record {
		return model.Record{
			"timestamp": ts, "token": token,
			"startFundingRate": start, "endFundingRate": end,
			"startTimestamp": ts, "endTimestamp": ts + 86400,
		}
	}
	records := []model.Record{
		day(0, btc, "100", "200"),
		day(0, eth, "100", "300"),
		day(0, mim, "100", "900"),
		day(86400, btc, "200", "250"),
		day(86400, eth, "0", "300"),
	}

	out, columns, err := FundingSeries(records)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH"}, columns)
	require.Len(t, out, 2)

	assert.InDelta(t, 100.0/10000*365, out[0].Value("BTC"), 1e-12)
	assert.InDelta(t, 50.0/10000*365, out[1].Value("BTC"), 1e-12)
	// missing start rate carries the previous day forward
	assert.InDelta(t, 200.0/10000*365, out[1].Value("ETH"), 1e-12)
}
