package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/campaign-cli/internal/report"
	"github.com/sells-group/campaign-cli/internal/scorer"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the scoring weights, tier thresholds and recommendation table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "## Score Weights")
		fmt.Fprintf(out, "- sales_conversion: %.1f\n", scorer.SalesConversionWeight)
		fmt.Fprintf(out, "- click_through_rate: %.1f\n", scorer.ClickThroughRateWeight)
		fmt.Fprintf(out, "- customer_retention: %.1f\n", scorer.CustomerRetentionWeight)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Tier Thresholds")
		fmt.Fprintf(out, "- High: score >= %.2f\n", scorer.HighThreshold)
		fmt.Fprintf(out, "- Low: score < %.2f\n", scorer.LowThreshold)
		fmt.Fprintln(out, "- Moderate: otherwise")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Recommendations")
		fmt.Fprint(out, report.DecisionTable())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
