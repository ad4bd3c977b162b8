package scorer

import "github.com/sells-group/campaign-cli/internal/model"

// Tier thresholds. A score at HighThreshold is High; a score at LowThreshold
// is Moderate.
const (
	HighThreshold = 0.50
	LowThreshold  = 0.30
)

// Classify maps a score to a tier. Rules are evaluated in order:
// score >= 0.50 is High, score < 0.30 is Low, anything else is Moderate.
func Classify(score float64) model.Tier {
	switch {
	case score >= HighThreshold:
		return model.TierHigh
	case score < LowThreshold:
		return model.TierLow
	default:
		return model.TierModerate
	}
}
