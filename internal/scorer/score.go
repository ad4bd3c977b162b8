// Package scorer computes weighted campaign performance scores and classifies
// them into tiers.
package scorer

import (
	"github.com/sells-group/campaign-cli/internal/model"
)

// Weights applied to each normalized metric. They sum to 1.0.
const (
	SalesConversionWeight   = 0.4
	ClickThroughRateWeight  = 0.3
	CustomerRetentionWeight = 0.3
)

// Components returns the weighted contribution of each metric.
func Components(c model.Campaign) model.ScoreComponents {
	return model.ScoreComponents{
		SalesConversion:   c.SalesConversion * SalesConversionWeight,
		ClickThroughRate:  c.ClickThroughRate * ClickThroughRateWeight,
		CustomerRetention: c.CustomerRetention * CustomerRetentionWeight,
	}
}

// Score returns 0.4*sales_conversion + 0.3*click_through_rate +
// 0.3*customer_retention. Inputs are validated into [0,1], so the result is
// in [0,1] and is not clamped.
func Score(c model.Campaign) float64 {
	comp := Components(c)
	return comp.SalesConversion + comp.ClickThroughRate + comp.CustomerRetention
}
