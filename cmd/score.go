package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/report"
)

var (
	scoreInput  inputFlags
	scoreReport string
	scoreOutput string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a campaign batch and render the analysis report",
	Long: `Validates a campaign batch, scores and classifies every campaign and
recommends a budget action for each.

The whole batch is rejected if any record fails validation; no partial
report is produced.

Examples:
  # Markdown report for a JSON batch
  campaign-cli score --input campaigns.json

  # CSV input, JSON output
  campaign-cli score --input campaigns.csv --report json --output report.json

  # Embedded sample batch
  campaign-cli score --sample`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := commandContext(cmd)

		if err := cfg.Validate("score"); err != nil {
			return err
		}

		reportFormat := scoreReport
		if reportFormat == "" {
			reportFormat = cfg.Report.Format
		}
		format, err := report.ParseFormat(reportFormat)
		if err != nil {
			return err
		}
		if format == report.FormatXLSX && scoreOutput == "" {
			return eris.New("score: xlsx report requires --output")
		}

		p, err := buildPipeline(schemaPath(scoreInput.schema))
		if err != nil {
			return eris.Wrap(err, "score: load schema")
		}

		w, closeOut, err := openOutput(scoreOutput, cmd.OutOrStdout())
		if err != nil {
			return eris.Wrap(err, "score")
		}
		defer closeOut() //nolint:errcheck

		records, err := loadRecords(ctx, scoreInput)
		if err != nil {
			fmt.Fprintln(w, report.FormatParseError(err))
			return eris.Wrap(err, "score: parse input")
		}

		batch, err := p.Run(records)
		if err != nil {
			fmt.Fprintln(w, report.FormatError(err))
			return eris.Wrap(err, "score: run pipeline")
		}

		if err := report.Write(w, format, batch, p.Schema()); err != nil {
			return err
		}

		if scoreOutput != "" {
			zap.L().Info("report written",
				zap.String("path", scoreOutput),
				zap.String("format", string(format)),
				zap.Int("campaigns", batch.Count),
			)
		}
		return nil
	},
}

func init() {
	scoreInput.register(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreReport, "report", "", "report format: markdown, json, csv or xlsx (default from config)")
	scoreCmd.Flags().StringVar(&scoreOutput, "output", "", "write the report to a file (default: stdout)")
	rootCmd.AddCommand(scoreCmd)
}
