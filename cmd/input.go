package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/ingest"
	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/pipeline"
	"github.com/sells-group/campaign-cli/internal/sample"
	"github.com/sells-group/campaign-cli/internal/validator"
)

// inputFlags are the batch source flags shared by score and validate.
type inputFlags struct {
	path   string
	format string
	schema string
	sample bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "input", "", "path to a campaign file (json, csv or xlsx)")
	cmd.Flags().StringVar(&f.format, "format", "", "input format: json, csv or xlsx (default: from extension)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "YAML schema file (default: built-in campaign schema)")
	cmd.Flags().BoolVar(&f.sample, "sample", false, "use the embedded sample batch instead of --input")
}

// commandContext returns the command's context, or Background when the
// command is invoked directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// buildPipeline returns a pipeline for the schema file, or the built-in
// schema when path is empty.
func buildPipeline(path string) (*pipeline.Pipeline, error) {
	if path == "" {
		return pipeline.Default(), nil
	}
	schema, err := validator.LoadSchema(path)
	if err != nil {
		return nil, err
	}
	zap.L().Info("loaded schema", zap.String("path", path), zap.String("version", schema.Version()))
	return pipeline.New(validator.New(schema)), nil
}

// loadRecords reads the batch selected by the flags.
func loadRecords(ctx context.Context, f inputFlags) ([]model.RawRecord, error) {
	if f.sample {
		return sample.Records(ctx)
	}
	if f.path == "" {
		return nil, eris.New("--input or --sample is required")
	}

	format := f.format
	if format == "" && cfg != nil {
		format = cfg.Input.Format
	}
	var parsed ingest.Format
	if format != "" {
		p, err := ingest.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		parsed = p
	}

	records, err := ingest.ParseFile(ctx, f.path, parsed)
	if err != nil {
		return nil, err
	}
	zap.L().Info("parsed input", zap.String("path", f.path), zap.Int("records", len(records)))
	return records, nil
}

// schemaPath resolves the schema flag against config.
func schemaPath(flag string) string {
	if flag != "" {
		return flag
	}
	if cfg != nil {
		return cfg.Schema.Path
	}
	return ""
}

// openOutput returns the file at path, or fallback when path is empty.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "create output file")
	}
	return f, f.Close, nil
}
