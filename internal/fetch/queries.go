package fetch

import (
	"fmt"
	"strings"
	"text/template"

	"perpStats/internal/registry"
)

// MaxPageSize is the largest "first" a subgraph accepts.
const MaxPageSize = 1000

// MetaQuery reads the subgraph indexing head.
const MetaQuery = `{ _meta { block { number } } }`

// Collection describes one top-level subgraph collection query.
type Collection struct {
	Alias   string
	Entity  string
	First   int
	Skip    int
	OrderBy string
	Where   []string
	Fields  []string
}

var queryTemplate = template.Must(template.New("query").Funcs(template.FuncMap{"join": strings.Join}).Parse(`{
{{- range .}}
  {{if .Alias}}{{.Alias}}: {{end}}{{.Entity}}(
    first: {{.First}}
    {{- if .Skip}}
    skip: {{.Skip}}
    {{- end}}
    orderBy: {{.OrderBy}}
    orderDirection: desc
    where: { {{join .Where ", "}} }
    subgraphError: allow
  ) {
    {{join .Fields "\n    "}}
  }
{{- end}}
}`))

// BuildQuery renders collections into one GraphQL document.
func BuildQuery(collections ...Collection) (string, error) {
	if len(collections) == 0 {
		return "", fmt.Errorf("no collections to query")
	}
	for i := range collections {
		if collections[i].First <= 0 {
			collections[i].First = MaxPageSize
		}
	}
	var b strings.Builder
	if err := queryTemplate.Execute(&b, collections); err != nil {
		return "", fmt.Errorf("render query: %w", err)
	}
	return b.String(), nil
}

// TimestampField is the field the chain's subgraph keys daily stats by.
func TimestampField(chain registry.Chain) string {
	if chain == registry.Arbitrum {
		return "id"
	}
	return "timestamp"
}

func between(field string, from, to int64) []string {
	return []string{fmt.Sprintf("%s_gte: %d", field, from), fmt.Sprintf("%s_lte: %d", field, to)}
}

func daily(quoted bool, rest ...string) []string {
	period := "period: daily"
	if quoted {
		period = `period: "daily"`
	}
	return append([]string{period}, rest...)
}

// FeeStats queries daily fee totals.
func FeeStats(chain registry.Chain, from, to int64) Collection {
	fields := []string{"id", "margin", "marginAndLiquidation", "swap", "mint", "burn"}
	if chain == registry.Avalanche {
		fields = append(fields, "timestamp")
	}
	return Collection{Entity: "feeStats", OrderBy: "id", Where: daily(false, between("id", from, to)...), Fields: fields}
}

// VolumeStats queries daily volume totals.
func VolumeStats(chain registry.Chain, from, to int64) Collection {
	ts := TimestampField(chain)
	return Collection{
		Entity:  "volumeStats",
		OrderBy: ts,
		Where:   daily(false, between(ts, from, to)...),
		Fields:  []string{ts, "margin", "liquidation", "swap", "mint", "burn"},
	}
}

// PoolStats queries daily pool token snapshots.
func PoolStats(chain registry.Chain, from, to int64) Collection {
	ts := TimestampField(chain)
	return Collection{
		Entity:  "glpStats",
		OrderBy: ts,
		Where:   daily(false, between(ts, from, to)...),
		Fields:  []string{ts, "aumInUsdg", "glpSupply", "distributedUsd", "distributedEth"},
	}
}

// FundingRates queries daily cumulative funding rates per token.
func FundingRates(from, to int64) Collection {
	return Collection{
		Entity:  "fundingRates",
		OrderBy: "timestamp",
		Where:   daily(true, between("id", from, to)...),
		Fields:  []string{"id", "token", "timestamp", "startFundingRate", "startTimestamp", "endFundingRate", "endTimestamp"},
	}
}

// UserStats queries daily unique user and action counts.
func UserStats(from, to int64) Collection {
	return Collection{
		Entity:  "userStats",
		OrderBy: "timestamp",
		Where:   daily(true, between("timestamp", from, to)...),
		Fields: []string{
			"uniqueCount", "uniqueSwapCount", "uniqueMarginCount", "uniqueMintBurnCount",
			"uniqueCountCumulative", "uniqueSwapCountCumulative", "uniqueMarginCountCumulative", "uniqueMintBurnCountCumulative",
			"actionCount", "actionSwapCount", "actionMarginCount", "actionMintBurnCount",
			"timestamp",
		},
	}
}

// TradingStats queries daily closed position PnL and open interest.
func TradingStats(from, to int64) Collection {
	return Collection{
		Entity:  "tradingStats",
		OrderBy: "timestamp",
		Where:   daily(true, between("timestamp", from, to)...),
		Fields:  []string{"timestamp", "profit", "loss", "profitCumulative", "lossCumulative", "longOpenInterest", "shortOpenInterest"},
	}
}

// SwapSources queries one page of hourly swap volume per routing contract.
func SwapSources(page Page, from, to int64) Collection {
	return Collection{
		Alias:   PageAlias(page),
		Entity:  "hourlyVolumeBySources",
		First:   page.First,
		Skip:    page.Skip,
		OrderBy: "timestamp",
		Where:   between("timestamp", from, to),
		Fields:  []string{"timestamp", "source", "swap"},
	}
}

// TokenStats queries one page of per-token pool amounts.
func TokenStats(page Page, period string, from, to int64) Collection {
	if period == "" {
		period = "daily"
	}
	return Collection{
		Alias:   PageAlias(page),
		Entity:  "tokenStats",
		First:   page.First,
		Skip:    page.Skip,
		OrderBy: "timestamp",
		Where:   append([]string{"period: " + period}, between("timestamp", from, to)...),
		Fields:  []string{"poolAmountUsd", "timestamp", "token"},
	}
}

// ReferralStats queries daily referral program totals.
func ReferralStats(from, to int64) Collection {
	return Collection{
		Entity:  "globalStats",
		OrderBy: "timestamp",
		Where:   daily(true, between("timestamp", from, to)...),
		Fields: []string{
			"volume", "volumeCumulative", "totalRebateUsd", "totalRebateUsdCumulative",
			"discountUsd", "discountUsdCumulative", "referrersCount", "referrersCountCumulative",
			"referralCodesCount", "referralCodesCountCumulative", "referralsCount", "referralsCountCumulative",
			"timestamp",
		},
	}
}

// PageAlias names a shard page so several pages can share one document.
func PageAlias(page Page) string {
	return fmt.Sprintf("skip%d", page.Skip)
}
