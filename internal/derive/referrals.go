package derive

import "perpStats/internal/model"

// Referral series keys.
const (
	KeyTotalRebateUsd    = "totalRebateUsd"
	KeyDiscountUsd       = "discountUsd"
	KeyReferrerRebateUsd = "referrerRebateUsd"
)

// usd fields of globalStats, stored with 30 decimals
var referralUsdFields = []string{
	"volume", "volumeCumulative",
	KeyTotalRebateUsd, "totalRebateUsdCumulative",
	KeyDiscountUsd, "discountUsdCumulative",
}

// ReferralSeries scales daily referral stats and splits the rebate into the
// trader discount and the referrer share.
func ReferralSeries(records []model.Record) (model.Series, error) {
	sorted, err := sortByTimestamp(records, "referral")
	if err != nil {
		return nil, err
	}
	out := make(model.Series, 0, len(sorted))
	for _, item := range sorted {
		p := model.NewTimePoint(item.ts)
		copyNumbers(&p, item.rec)
		for _, key := range referralUsdFields {
			if v, ok := item.rec.Scaled(key, 30); ok {
				p.Set(key, v)
			}
		}
		p.Set(KeyReferrerRebateUsd, p.Value(KeyTotalRebateUsd)-p.Value(KeyDiscountUsd))
		out = append(out, p)
	}
	return out, nil
}
