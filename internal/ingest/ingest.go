package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/model"
)

// Format is an input document format.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("ingest: unknown format %q", s)
	}
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("ingest: cannot detect format of %q (use json, csv or xlsx)", path)
	}
}

// FormatFromContentType maps an HTTP content type to a format. Unknown types
// default to JSON.
func FormatFromContentType(ct string) Format {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "csv"):
		return FormatCSV
	case strings.Contains(ct, "spreadsheetml"):
		return FormatXLSX
	default:
		return FormatJSON
	}
}

// Parse decodes raw records from r.
func Parse(ctx context.Context, r io.Reader, format Format) ([]model.RawRecord, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(ctx, r)
	case FormatCSV:
		return ParseCSV(ctx, r)
	case FormatXLSX:
		rows, err := ReadXLSXFrom(r, XLSXOptions{})
		if err != nil {
			return nil, err
		}
		return RecordsFromRows(rows)
	default:
		return nil, eris.Errorf("ingest: unknown format %q", format)
	}
}

// ParseFile decodes raw records from a file. An empty format is detected
// from the file extension.
func ParseFile(ctx context.Context, path string, format Format) ([]model.RawRecord, error) {
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	if format == FormatXLSX {
		rows, err := ReadXLSX(path, XLSXOptions{})
		if err != nil {
			return nil, err
		}
		return RecordsFromRows(rows)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open input")
	}
	defer f.Close() //nolint:errcheck

	return Parse(ctx, f, format)
}
