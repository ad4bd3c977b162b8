// Package recommend maps a campaign's tier and ad spend to a budget action.
package recommend

import "github.com/sells-group/campaign-cli/internal/model"

// Spend thresholds in the batch's currency units.
const (
	HighTierSpendCeiling = 10000.0
	LowTierSpendCeiling  = 15000.0
)

// The fixed recommendation texts.
const (
	IncreaseInvestment model.Recommendation = "Increase investment for this channel."
	MaintainHighSpend  model.Recommendation = "Maintain current investment; channel is performing well with significant spending."
	DecreaseInvestment model.Recommendation = "Decrease investment for this channel."
	MonitorPerformance model.Recommendation = "Monitor performance; consider reducing investment if performance does not improve."
	MaintainOrAdjust   model.Recommendation = "Maintain or slightly adjust the current investment based on further review."
)

// Rule is one row of the decision table.
type Rule struct {
	Tier           model.Tier
	Condition      string
	Matches        func(adSpend float64) bool
	Recommendation model.Recommendation
}

var table = []Rule{
	{model.TierHigh, "ad_spend <= 10000", func(s float64) bool { return s <= HighTierSpendCeiling }, IncreaseInvestment},
	{model.TierHigh, "ad_spend > 10000", func(s float64) bool { return s > HighTierSpendCeiling }, MaintainHighSpend},
	{model.TierLow, "ad_spend > 15000", func(s float64) bool { return s > LowTierSpendCeiling }, DecreaseInvestment},
	{model.TierLow, "ad_spend <= 15000", func(s float64) bool { return s <= LowTierSpendCeiling }, MonitorPerformance},
	{model.TierModerate, "any", func(float64) bool { return true }, MaintainOrAdjust},
}

// Table returns a copy of the decision table in evaluation order.
func Table() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

// Recommend returns the first table row matching (tier, adSpend). Tiers with
// no matching row, and NaN spend, fall through to the moderate recommendation.
func Recommend(tier model.Tier, adSpend float64) model.Recommendation {
	for _, r := range table {
		if r.Tier == tier && r.Matches(adSpend) {
			return r.Recommendation
		}
	}
	return MaintainOrAdjust
}
