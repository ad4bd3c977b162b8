package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/campaign-cli/internal/model"
)

// Validator checks batches of raw records against a schema.
type Validator struct {
	schema Schema
}

// New creates a Validator bound to schema.
func New(schema Schema) *Validator {
	return &Validator{schema: schema}
}

// Schema returns the schema the validator enforces.
func (v *Validator) Schema() Schema {
	return v.schema
}

// Validate checks every record in order and returns typed campaigns in input
// order. The first failing record rejects the whole batch; the returned error
// is one of model.ErrEmptyBatch, *model.MissingFieldsError,
// *model.InvalidTypeError or *model.InvalidRangeError.
func (v *Validator) Validate(records []model.RawRecord) ([]model.Campaign, error) {
	if len(records) == 0 {
		return nil, model.ErrEmptyBatch
	}

	campaigns := make([]model.Campaign, 0, len(records))
	for i, rec := range records {
		c, err := v.validateRecord(i, rec)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// Check runs Validate and folds the result into an Outcome.
func (v *Validator) Check(records []model.RawRecord) Outcome {
	campaigns, err := v.Validate(records)
	if err != nil {
		return Invalid(err)
	}
	return Valid(campaigns)
}

func (v *Validator) validateRecord(idx int, rec model.RawRecord) (model.Campaign, error) {
	var missing []string
	for _, r := range v.schema.rules {
		if !rec.Has(r.Name) {
			missing = append(missing, r.Name)
		}
	}
	if len(missing) > 0 {
		return model.Campaign{}, &model.MissingFieldsError{Index: idx, Fields: missing}
	}

	values := make(map[string]float64, len(canonicalNumeric))
	for _, r := range v.schema.rules {
		if !r.Numeric {
			continue
		}
		raw := rec[r.Name]
		f, ok := ParseNumber(raw)
		if !ok {
			return model.Campaign{}, &model.InvalidTypeError{Index: idx, Field: r.Name, Value: raw}
		}
		if !r.InRange(f) {
			return model.Campaign{}, &model.InvalidRangeError{Index: idx, Field: r.Name, Value: f}
		}
		values[r.Name] = f
	}

	return model.Campaign{
		Channel:           channelString(rec[model.FieldChannel]),
		SalesConversion:   values[model.FieldSalesConversion],
		ClickThroughRate:  values[model.FieldClickThroughRate],
		CustomerRetention: values[model.FieldCustomerRetention],
		AdSpend:           values[model.FieldAdSpend],
	}, nil
}

// ParseNumber converts a raw value to a finite float64. Strings must hold a
// complete decimal or exponent literal after trimming; trailing characters,
// empty strings, NaN and infinities are rejected, as are booleans and null.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		return parseNumericString(string(n))
	case string:
		return parseNumericString(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decimalLiteral matches plain decimal and exponent literals. It excludes
// the underscores, hex floats and NaN/Inf spellings ParseFloat also accepts.
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func channelString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
