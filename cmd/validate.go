package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/campaign-cli/internal/report"
)

var validateInput inputFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a campaign batch against the schema without scoring it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := commandContext(cmd)
		out := cmd.OutOrStdout()

		p, err := buildPipeline(schemaPath(validateInput.schema))
		if err != nil {
			return eris.Wrap(err, "validate: load schema")
		}

		records, err := loadRecords(ctx, validateInput)
		if err != nil {
			fmt.Fprintln(out, report.FormatParseError(err))
			return eris.Wrap(err, "validate: parse input")
		}

		outcome := p.Validate(records)
		if !outcome.OK() {
			fmt.Fprintln(out, report.FormatError(outcome.Err()))
			return eris.Wrap(outcome.Err(), "validate")
		}

		lines := report.ValidationSection(len(outcome.Campaigns()), p.Schema())
		fmt.Fprintln(out, strings.Join(lines, "\n"))
		return nil
	},
}

func init() {
	validateInput.register(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
