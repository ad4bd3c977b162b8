package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

const invalidCSV = `channel,sales_conversion,click_through_rate,customer_retention
ChannelAlpha,0.55,0.40,0.50
`

// setScoreFlags sets the score command's flag variables for one test.
func setScoreFlags(t *testing.T, in inputFlags, reportFormat, output string) {
	t.Helper()
	scoreInput, scoreReport, scoreOutput = in, reportFormat, output
	t.Cleanup(func() {
		scoreInput, scoreReport, scoreOutput = inputFlags{}, "", ""
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand_SampleMarkdown(t *testing.T) {
	withConfig(t)
	out := captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{sample: true}, "", "")

	require.NoError(t, scoreCmd.RunE(scoreCmd, nil))

	s := out.String()
	assert.Contains(t, s, "# Data Validation Report")
	assert.Contains(t, s, "Total Campaigns Evaluated: 10")
	assert.Contains(t, s, "## Campaign: ChannelAlpha")
	assert.Contains(t, s, "- Ad Spend: $7,000.00")
}

func TestScoreCommand_ReportFormatFromConfig(t *testing.T) {
	c := withConfig(t)
	c.Report.Format = "csv"
	out := captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{sample: true}, "", "")

	require.NoError(t, scoreCmd.RunE(scoreCmd, nil))
	assert.Contains(t, out.String(), "channel,sales_conversion,click_through_rate")
}

func TestScoreCommand_CSVInputToJSONFile(t *testing.T) {
	withConfig(t)
	captureOutput(t, scoreCmd)
	input := writeFile(t, "batch.csv", "channel,sales_conversion,click_through_rate,customer_retention,ad_spend\nA,0.85,0.80,0.90,18000\n")
	output := filepath.Join(t.TempDir(), "report.json")
	setScoreFlags(t, inputFlags{path: input}, "json", output)

	require.NoError(t, scoreCmd.RunE(scoreCmd, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tier": "high"`)
	assert.Contains(t, string(data), "Maintain current investment")
}

func TestScoreCommand_InputFormatFromConfig(t *testing.T) {
	c := withConfig(t)
	c.Input.Format = "csv"
	out := captureOutput(t, scoreCmd)
	input := writeFile(t, "batch.dat", "channel,sales_conversion,click_through_rate,customer_retention,ad_spend\nA,0.1,0.1,0.1,100\n")
	setScoreFlags(t, inputFlags{path: input}, "csv", "")

	require.NoError(t, scoreCmd.RunE(scoreCmd, nil))
	assert.Contains(t, out.String(), "Monitor performance")
}

func TestScoreCommand_XLSXOutput(t *testing.T) {
	withConfig(t)
	captureOutput(t, scoreCmd)
	output := filepath.Join(t.TempDir(), "report.xlsx")
	setScoreFlags(t, inputFlags{sample: true}, "xlsx", output)

	require.NoError(t, scoreCmd.RunE(scoreCmd, nil))

	f, err := xlsx.OpenFile(output)
	require.NoError(t, err)
	sheet, ok := f.Sheet["Campaigns"]
	require.True(t, ok)
	assert.Len(t, sheet.Rows, 11)
}

func TestScoreCommand_XLSXRequiresOutput(t *testing.T) {
	withConfig(t)
	captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{sample: true}, "xlsx", "")

	err := scoreCmd.RunE(scoreCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx report requires --output")
}

func TestScoreCommand_InvalidBatch(t *testing.T) {
	withConfig(t)
	out := captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{path: writeFile(t, "batch.csv", invalidCSV)}, "", "")

	err := scoreCmd.RunE(scoreCmd, nil)
	require.Error(t, err)
	assert.Equal(t, "ERROR: campaign 1: Missing required field(s): ad_spend\n", out.String())
}

func TestScoreCommand_NoInput(t *testing.T) {
	withConfig(t)
	out := captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{}, "", "")

	err := scoreCmd.RunE(scoreCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--input or --sample is required")
	assert.Contains(t, out.String(), "ERROR: Invalid data format.")
}

func TestScoreCommand_MalformedJSON(t *testing.T) {
	withConfig(t)
	out := captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{path: writeFile(t, "batch.json", `{"items": []}`)}, "", "")

	require.Error(t, scoreCmd.RunE(scoreCmd, nil))
	assert.Equal(t, "ERROR: Invalid data format. json: missing \"campaigns\" array\n", out.String())
}

func TestScoreCommand_BadReportFormat(t *testing.T) {
	withConfig(t)
	captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{sample: true}, "pdf", "")

	err := scoreCmd.RunE(scoreCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestScoreCommand_InvalidConfig(t *testing.T) {
	c := withConfig(t)
	c.Report.Format = "pdf"
	captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{sample: true}, "", "")

	err := scoreCmd.RunE(scoreCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: validation failed")
}

func TestScoreCommand_CustomSchema(t *testing.T) {
	withConfig(t)
	out := captureOutput(t, scoreCmd)
	schema := writeFile(t, "schema.yaml", `
version: campaign/regional
fields:
  - name: channel
  - name: sales_conversion
    type: number
    min: 0
    max: 1
  - name: click_through_rate
    type: number
    min: 0
    max: 1
  - name: customer_retention
    type: number
    min: 0
    max: 1
  - name: ad_spend
    type: number
    min: 0
    exclusive_min: true
  - name: region
`)
	setScoreFlags(t, inputFlags{sample: true, schema: schema}, "", "")

	err := scoreCmd.RunE(scoreCmd, nil)
	require.Error(t, err)
	assert.Equal(t, "ERROR: campaign 1: Missing required field(s): region\n", out.String())
}

func TestScoreCommand_SchemaFromConfig(t *testing.T) {
	c := withConfig(t)
	c.Schema.Path = filepath.Join(t.TempDir(), "missing.yaml")
	captureOutput(t, scoreCmd)
	setScoreFlags(t, inputFlags{sample: true}, "", "")

	err := scoreCmd.RunE(scoreCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score: load schema")
}
