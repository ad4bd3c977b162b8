package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/validator"
)

// Format is an output document format.
type Format string

// Supported output formats.
const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("report: unknown format %q", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// summaryColumns are the ordered columns of the CSV and XLSX summaries.
var summaryColumns = []string{
	"channel",
	"sales_conversion",
	"click_through_rate",
	"customer_retention",
	"ad_spend",
	"score",
	"tier",
	"category",
	"recommendation",
}

// Write renders batch to w in the given format.
func Write(w io.Writer, format Format, batch *model.BatchReport, schema validator.Schema) error {
	switch format {
	case FormatMarkdown:
		if _, err := io.WriteString(w, Markdown(batch, schema)+"\n"); err != nil {
			return eris.Wrap(err, "report: write markdown")
		}
		return nil
	case FormatJSON:
		return WriteJSON(w, batch)
	case FormatCSV:
		return WriteCSV(w, batch)
	case FormatXLSX:
		return WriteXLSX(w, batch)
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
}

// WriteJSON writes the batch as indented JSON.
func WriteJSON(w io.Writer, batch *model.BatchReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batch); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}

// WriteCSV writes one summary row per campaign.
func WriteCSV(w io.Writer, batch *model.BatchReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryColumns); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, cr := range batch.Campaigns {
		if err := cw.Write(summaryRow(cr)); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}

// WriteXLSX writes the summary as a single-sheet workbook.
func WriteXLSX(w io.Writer, batch *model.BatchReport) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Campaigns")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range summaryColumns {
		header.AddCell().SetString(col)
	}

	for _, cr := range batch.Campaigns {
		row := sheet.AddRow()
		c := cr.Campaign
		row.AddCell().SetString(c.Channel)
		row.AddCell().SetFloat(c.SalesConversion)
		row.AddCell().SetFloat(c.ClickThroughRate)
		row.AddCell().SetFloat(c.CustomerRetention)
		row.AddCell().SetFloat(c.AdSpend)
		row.AddCell().SetFloat(cr.Result.Score)
		row.AddCell().SetString(cr.Result.Tier.String())
		row.AddCell().SetString(cr.Result.Tier.Label())
		row.AddCell().SetString(string(cr.Recommendation))
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

func summaryRow(cr model.CampaignReport) []string {
	c := cr.Campaign
	return []string{
		c.Channel,
		formatFloat(c.SalesConversion),
		formatFloat(c.ClickThroughRate),
		formatFloat(c.CustomerRetention),
		formatFloat(c.AdSpend),
		strconv.FormatFloat(cr.Result.Score, 'f', 3, 64),
		cr.Result.Tier.String(),
		cr.Result.Tier.Label(),
		string(cr.Recommendation),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
