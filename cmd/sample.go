package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/campaign-cli/internal/sample"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the embedded sample campaign batch as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := cmd.OutOrStdout().Write(sample.JSON()); err != nil {
			return eris.Wrap(err, "sample: write")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
