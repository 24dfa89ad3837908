package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"perpStats/internal/model"
	"perpStats/internal/series"
)

// DefaultPricesURL is the public CoinGecko API.
const DefaultPricesURL = "https://api.coingecko.com/api/v3"

var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"LINK": "chainlink",
	"UNI":  "uniswap",
	"AVAX": "avalanche-2",
}

// CoinID maps a token symbol to its CoinGecko id.
func CoinID(symbol string) (string, bool) {
	id, ok := coinIDs[strings.ToUpper(symbol)]
	return id, ok
}

// Prices reads daily USD spot prices from CoinGecko.
type Prices struct {
	baseURL string
	http    httpClient
	now     func() time.Time
}

func NewPrices(baseURL string, opts Options) *Prices {
	if baseURL == "" {
		baseURL = DefaultPricesURL
	}
	return &Prices{baseURL: strings.TrimRight(baseURL, "/"), http: opts.build("prices"), now: time.Now}
}

type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

// Daily returns one point per day keyed by symbol, starting near from.
// CoinGecko stamps a day with its first price; shifting by one millisecond
// files it under the previous day so it lines up with end-of-day snapshots.
func (p *Prices) Daily(ctx context.Context, symbol string, from int64) (model.Series, error) {
	id, ok := CoinID(symbol)
	if !ok {
		return nil, fmt.Errorf("no price id for %s", symbol)
	}
	now := p.now().Unix()
	days := ceilDiv(now, series.DaySeconds) - ceilDiv(from, series.DaySeconds) - 1
	if days < 1 {
		days = 1
	}

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily", p.baseURL, id, days)
	payload, err := p.http.do(ctx, "GET", endpoint, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s prices: %w", symbol, err)
	}
	var chart marketChart
	if err := json.Unmarshal(payload, &chart); err != nil {
		return nil, fmt.Errorf("decode %s prices: %w", symbol, err)
	}

	byDay := make(map[int64]int)
	out := make(model.Series, 0, len(chart.Prices))
	for _, item := range chart.Prices {
		if len(item) < 2 || math.IsNaN(item[1]) {
			continue
		}
		ts := series.Bucket((int64(item[0])-1)/1000, series.DaySeconds)
		if i, ok := byDay[ts]; ok {
			out[i].Set(symbol, item[1])
			continue
		}
		point := model.NewTimePoint(ts)
		point.Set(symbol, item[1])
		byDay[ts] = len(out)
		out = append(out, point)
	}
	out.Sort()
	return out, nil
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}
