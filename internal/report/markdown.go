// Package report renders scored campaign batches as markdown, JSON, CSV and
// XLSX documents.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/recommend"
	"github.com/sells-group/campaign-cli/internal/scorer"
	"github.com/sells-group/campaign-cli/internal/validator"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount with thousands separators and two decimals,
// e.g. "$7,000.00".
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// ValidationSection renders the data validation part of the report for a
// batch of count records that passed schema.
func ValidationSection(count int, schema validator.Schema) []string {
	rules := schema.Rules()
	lines := []string{
		"# Data Validation Report",
		"## 1. Data Structure Check:",
		fmt.Sprintf("- Number of campaigns: %d", count),
		fmt.Sprintf("- Number of fields per record: %d", len(rules)),
		"",
		"## 2. Required Fields Check:",
	}
	for _, r := range rules {
		lines = append(lines, fmt.Sprintf("- %s: ✓", r.Name))
	}
	lines = append(lines, "", "## 3. Data Type and Value Validation:")
	for _, r := range rules {
		if !r.Numeric {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): ✓", r.Label, r.Description))
	}
	lines = append(lines,
		"",
		"## Validation Summary:",
		"Data validation is successful! Proceeding with analysis...",
	)
	return lines
}

// Markdown renders the full analysis document for a scored batch.
func Markdown(batch *model.BatchReport, schema validator.Schema) string {
	lines := ValidationSection(batch.Count, schema)
	lines = append(lines,
		"",
		"# Formulas Used:",
		"1. **Performance Score Formula:**",
		fmt.Sprintf(`$\text{Performance Score} = (\text{sales\_conversion} \times %.1f) + (\text{click\_through\_rate} \times %.1f) + (\text{customer\_retention} \times %.1f)$`,
			scorer.SalesConversionWeight, scorer.ClickThroughRateWeight, scorer.CustomerRetentionWeight),
		"",
		"# Campaign Analysis Summary",
		fmt.Sprintf("Total Campaigns Evaluated: %d", batch.Count),
		fmt.Sprintf("Total Ad Spend: %s", Money(batch.TotalSpend())),
		"",
		"# Detailed Analysis per Campaign",
	)

	for _, cr := range batch.Campaigns {
		lines = append(lines, campaignSection(cr)...)
	}

	lines = append(lines,
		"# Feedback and Rating",
		"Would you like detailed calculations for any specific campaign?",
		"Please rate this analysis on a scale of 1 to 5.",
	)
	return strings.Join(lines, "\n")
}

func campaignSection(cr model.CampaignReport) []string {
	c := cr.Campaign
	comp := cr.Result.Components
	return []string{
		fmt.Sprintf("## Campaign: %s", c.Channel),
		"### Input Data:",
		fmt.Sprintf("- Sales Conversion: %.2f", c.SalesConversion),
		fmt.Sprintf("- Click Through Rate: %.2f", c.ClickThroughRate),
		fmt.Sprintf("- Customer Retention: %.2f", c.CustomerRetention),
		fmt.Sprintf("- Ad Spend: %s", Money(c.AdSpend)),
		"",
		"### Detailed Calculations:",
		"1. **Performance Score Calculation:**",
		fmt.Sprintf(`   - Compute $\text{sales\_conversion} \times %.1f$: $%.3f$`, scorer.SalesConversionWeight, comp.SalesConversion),
		fmt.Sprintf(`   - Compute $\text{click\_through\_rate} \times %.1f$: $%.3f$`, scorer.ClickThroughRateWeight, comp.ClickThroughRate),
		fmt.Sprintf(`   - Compute $\text{customer\_retention} \times %.1f$: $%.3f$`, scorer.CustomerRetentionWeight, comp.CustomerRetention),
		fmt.Sprintf("   - Sum: $%.3f + %.3f + %.3f = %.3f$",
			comp.SalesConversion, comp.ClickThroughRate, comp.CustomerRetention, cr.Result.Score),
		fmt.Sprintf("   - Rounded Performance Score: %.2f", cr.Result.Score),
		"",
		"2. **Performance Categorization:**",
		fmt.Sprintf(`   - If Performance Score $\geq %.2f$: %s`, scorer.HighThreshold, model.TierHigh.Label()),
		fmt.Sprintf(`   - Else if Performance Score $< %.2f$: %s`, scorer.LowThreshold, model.TierLow.Label()),
		fmt.Sprintf("   - Else: %s", model.TierModerate.Label()),
		"",
		"### Final Recommendation:",
		fmt.Sprintf("- **Category:** %s", cr.Result.Tier.Label()),
		fmt.Sprintf("- **Recommendation:** %s", cr.Recommendation),
		"",
	}
}

// DecisionTable renders the recommendation rules as a markdown table.
func DecisionTable() string {
	var b strings.Builder
	b.WriteString("| Tier | Condition | Recommendation |\n")
	b.WriteString("|---|---|---|\n")
	for _, r := range recommend.Table() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Tier.Label(), r.Condition, r.Recommendation)
	}
	return b.String()
}

// FormatError renders a batch rejection the way the report surfaces it.
func FormatError(err error) string {
	return "ERROR: " + validator.Reason(err)
}

// FormatParseError renders an input decoding failure.
func FormatParseError(err error) string {
	return "ERROR: Invalid data format. " + err.Error()
}
