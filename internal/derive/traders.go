package derive

import (
	"math"

	"perpStats/internal/model"
)

// Trader series keys.
const (
	KeyLongOpenInterest        = "longOpenInterest"
	KeyShortOpenInterest       = "shortOpenInterest"
	KeyOpenInterest            = "openInterest"
	KeyProfit                  = "profit"
	KeyLoss                    = "loss"
	KeyProfitCumulative        = "profitCumulative"
	KeyLossCumulative          = "lossCumulative"
	KeyPnl                     = "pnl"
	KeyPnlCumulative           = "pnlCumulative"
	KeyCurrentProfitCumulative = "currentProfitCumulative"
	KeyCurrentLossCumulative   = "currentLossCumulative"
	KeyCurrentPnlCumulative    = "currentPnlCumulative"
)

// TraderStats are the chart extents of a trader series.
type TraderStats struct {
	MaxProfit                      float64 `json:"maxProfit"`
	MaxLoss                        float64 `json:"maxLoss"`
	MaxProfitLoss                  float64 `json:"maxProfitLoss"`
	CurrentProfitCumulative        float64 `json:"currentProfitCumulative"`
	CurrentLossCumulative          float64 `json:"currentLossCumulative"`
	MaxCurrentCumulativeProfitLoss float64 `json:"maxCurrentCumulativeProfitLoss"`
	MaxAbsPnl                      float64 `json:"maxAbsPnl"`
	MaxAbsCumulativePnl            float64 `json:"maxAbsCumulativePnl"`
}

// TraderSeries derives closed-position PnL and open interest from daily
// tradingStats records. Losses are reported as negative numbers. ok is false
// when there are no records.
func TraderSeries(records []model.Record) (model.Series, TraderStats, bool, error) {
	sorted, err := sortByTimestamp(records, "trading")
	if err != nil {
		return nil, TraderStats{}, false, err
	}
	if len(sorted) == 0 {
		return model.Series{}, TraderStats{}, false, nil
	}

	var curProfit, curLoss, curPnl float64
	out := make(model.Series, 0, len(sorted))
	for _, item := range sorted {
		scaled := func(key string) float64 {
			v, _ := item.rec.Scaled(key, 30)
			return v
		}
		long := scaled(KeyLongOpenInterest)
		short := scaled(KeyShortOpenInterest)
		profit := scaled(KeyProfit)
		loss := scaled(KeyLoss)
		profitCum := scaled(KeyProfitCumulative)
		lossCum := scaled(KeyLossCumulative)
		pnl := profit - loss

		curProfit += profit
		curLoss -= loss
		curPnl += pnl

		p := model.NewTimePoint(item.ts)
		p.Set(KeyLongOpenInterest, long)
		p.Set(KeyShortOpenInterest, short)
		p.Set(KeyOpenInterest, long+short)
		p.Set(KeyProfit, profit)
		p.Set(KeyLoss, -loss)
		p.Set(KeyProfitCumulative, profitCum)
		p.Set(KeyLossCumulative, -lossCum)
		p.Set(KeyPnl, pnl)
		p.Set(KeyPnlCumulative, profitCum-lossCum)
		p.Set(KeyCurrentProfitCumulative, curProfit)
		p.Set(KeyCurrentLossCumulative, curLoss)
		p.Set(KeyCurrentPnlCumulative, curPnl)
		out = append(out, p)
	}
	return out, traderStats(out), true, nil
}

func traderStats(s model.Series) TraderStats {
	first := s[0]
	maxProfit := first.Value(KeyProfit)
	maxLoss := first.Value(KeyLoss)
	maxPnl, minPnl := first.Value(KeyPnl), first.Value(KeyPnl)
	maxCum, minCum := first.Value(KeyCurrentPnlCumulative), first.Value(KeyCurrentPnlCumulative)
	for _, p := range s[1:] {
		maxProfit = math.Max(maxProfit, p.Value(KeyProfit))
		maxLoss = math.Min(maxLoss, p.Value(KeyLoss))
		maxPnl = math.Max(maxPnl, p.Value(KeyPnl))
		minPnl = math.Min(minPnl, p.Value(KeyPnl))
		maxCum = math.Max(maxCum, p.Value(KeyCurrentPnlCumulative))
		minCum = math.Min(minCum, p.Value(KeyCurrentPnlCumulative))
	}
	last := s[len(s)-1]
	curProfit := last.Value(KeyCurrentProfitCumulative)
	curLoss := last.Value(KeyCurrentLossCumulative)

	return TraderStats{
		MaxProfit:                      maxProfit,
		MaxLoss:                        maxLoss,
		MaxProfitLoss:                  math.Max(maxProfit, -maxLoss),
		CurrentProfitCumulative:        curProfit,
		CurrentLossCumulative:          curLoss,
		MaxCurrentCumulativeProfitLoss: math.Max(curProfit, -curLoss),
		MaxAbsPnl:                      math.Max(math.Abs(maxPnl), math.Abs(minPnl)),
		MaxAbsCumulativePnl:            math.Max(math.Abs(maxCum), math.Abs(minCum)),
	}
}
