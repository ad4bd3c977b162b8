package model

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Canonical campaign field names.
const (
	FieldChannel           = "channel"
	FieldSalesConversion   = "sales_conversion"
	FieldClickThroughRate  = "click_through_rate"
	FieldCustomerRetention = "customer_retention"
	FieldAdSpend           = "ad_spend"
)

// RawRecord is one campaign as delivered by a parser. Values are untyped:
// strings from tabular sources, json.Number or float64 from structured ones.
// A field that is absent has no key.
type RawRecord map[string]any

// Has reports whether the field key is present, regardless of its value.
func (r RawRecord) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Campaign is a validated campaign record. Only the validator constructs
// one, so every numeric field is within its declared range.
type Campaign struct {
	Channel           string  `json:"channel"`
	SalesConversion   float64 `json:"sales_conversion"`
	ClickThroughRate  float64 `json:"click_through_rate"`
	CustomerRetention float64 `json:"customer_retention"`
	AdSpend           float64 `json:"ad_spend"`
}

// Tier is the discretized performance class of a campaign score.
type Tier int

const (
	// TierUnknown is the zero value and never produced by the classifier.
	TierUnknown Tier = iota
	TierHigh
	TierModerate
	TierLow
)

var tierNames = map[Tier]string{
	TierHigh:     "high",
	TierModerate: "moderate",
	TierLow:      "low",
}

var tierLabels = map[Tier]string{
	TierHigh:     "High Performance",
	TierModerate: "Moderate Performance",
	TierLow:      "Low Performance",
}

// String returns the machine name of the tier.
func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "unknown"
}

// Label returns the display label used in reports, e.g. "High Performance".
func (t Tier) Label() string {
	if s, ok := tierLabels[t]; ok {
		return s
	}
	return "Unknown"
}

// Valid reports whether t is one of the three classifier outputs.
func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// ParseTier parses a machine tier name.
func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return TierUnknown, eris.Errorf("model: unknown tier %q", s)
}

// MarshalJSON encodes the tier by name.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tier name.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return eris.Wrap(err, "model: decode tier")
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ScoreComponents is the weighted contribution of each metric to the score.
type ScoreComponents struct {
	SalesConversion   float64 `json:"sales_conversion"`
	ClickThroughRate  float64 `json:"click_through_rate"`
	CustomerRetention float64 `json:"customer_retention"`
}

// ScoreResult is the score and tier derived from one campaign.
type ScoreResult struct {
	Score      float64         `json:"score"`
	Tier       Tier            `json:"tier"`
	Components ScoreComponents `json:"components"`
}

// Recommendation is one of the fixed budget-action texts.
type Recommendation string

// CampaignReport is the computed result for one input campaign.
type CampaignReport struct {
	Campaign       Campaign       `json:"campaign"`
	Result         ScoreResult    `json:"result"`
	Recommendation Recommendation `json:"recommendation"`
}

// BatchReport is the ordered set of campaign reports for a batch, plus the
// metadata the renderer needs.
type BatchReport struct {
	SchemaVersion string           `json:"schema_version"`
	Count         int              `json:"count"`
	Fields        []string         `json:"fields"`
	Campaigns     []CampaignReport `json:"campaigns"`
}

// TierCounts tallies campaigns per tier.
func (b *BatchReport) TierCounts() map[Tier]int {
	counts := make(map[Tier]int, 3)
	for _, c := range b.Campaigns {
		counts[c.Result.Tier]++
	}
	return counts
}

// TotalSpend sums ad spend across the batch.
func (b *BatchReport) TotalSpend() float64 {
	var total float64
	for _, c := range b.Campaigns {
		total += c.Campaign.AdSpend
	}
	return total
}
