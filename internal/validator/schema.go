// Package validator checks raw campaign records against a field schema and
// converts them into typed campaigns.
package validator

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/campaign-cli/internal/model"
)

// DefaultSchemaVersion identifies the built-in campaign schema.
const DefaultSchemaVersion = "campaign/v1"

// FieldRule describes one required field. Non-numeric fields are only
// checked for presence.
type FieldRule struct {
	Name         string
	Label        string
	Description  string
	Numeric      bool
	Min          float64
	Max          float64
	HasMin       bool
	HasMax       bool
	ExclusiveMin bool
}

// InRange reports whether v satisfies the rule's bounds.
func (r FieldRule) InRange(v float64) bool {
	if r.HasMin {
		if r.ExclusiveMin && v <= r.Min {
			return false
		}
		if !r.ExclusiveMin && v < r.Min {
			return false
		}
	}
	if r.HasMax && v > r.Max {
		return false
	}
	return true
}

// Schema is an immutable set of required field rules. Construct one with
// DefaultSchema, NewSchema or LoadSchema.
type Schema struct {
	version string
	rules   []FieldRule
}

// Version returns the schema identifier.
func (s Schema) Version() string { return s.version }

// Rules returns a copy of the field rules in declaration order.
func (s Schema) Rules() []FieldRule {
	out := make([]FieldRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// FieldNames returns the required field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name
	}
	return names
}

// Rule looks up a field rule by name.
func (s Schema) Rule(name string) (FieldRule, bool) {
	for _, r := range s.rules {
		if r.Name == name {
			return r, true
		}
	}
	return FieldRule{}, false
}

// DefaultSchema returns the campaign schema: channel plus three rates in
// [0,1] and a strictly positive ad spend.
func DefaultSchema() Schema {
	return Schema{
		version: DefaultSchemaVersion,
		rules: []FieldRule{
			{Name: model.FieldChannel, Label: "Channel", Description: "campaign channel name"},
			{Name: model.FieldSalesConversion, Label: "Sales Conversion", Description: "numeric between 0 and 1",
				Numeric: true, Min: 0, Max: 1, HasMin: true, HasMax: true},
			{Name: model.FieldClickThroughRate, Label: "Click Through Rate", Description: "numeric between 0 and 1",
				Numeric: true, Min: 0, Max: 1, HasMin: true, HasMax: true},
			{Name: model.FieldCustomerRetention, Label: "Customer Retention", Description: "numeric between 0 and 1",
				Numeric: true, Min: 0, Max: 1, HasMin: true, HasMax: true},
			{Name: model.FieldAdSpend, Label: "Ad Spend", Description: "positive number in USD",
				Numeric: true, Min: 0, HasMin: true, ExclusiveMin: true},
		},
	}
}

// canonicalNumeric are the fields a schema must declare numeric for a
// typed campaign to be built from a record.
var canonicalNumeric = []string{
	model.FieldSalesConversion,
	model.FieldClickThroughRate,
	model.FieldCustomerRetention,
	model.FieldAdSpend,
}

// NewSchema builds a schema from rules. The rules must cover the canonical
// campaign fields with the default bounds; extra required fields are allowed.
func NewSchema(version string, rules []FieldRule) (Schema, error) {
	if strings.TrimSpace(version) == "" {
		return Schema{}, eris.New("validator: schema version is required")
	}
	if len(rules) == 0 {
		return Schema{}, eris.New("validator: schema has no fields")
	}

	var errs []string
	seen := make(map[string]FieldRule, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Sprintf("field %d has no name", i))
			continue
		}
		if _, dup := seen[r.Name]; dup {
			errs = append(errs, fmt.Sprintf("field %q declared twice", r.Name))
		}
		if r.HasMin && r.HasMax && r.Max < r.Min {
			errs = append(errs, fmt.Sprintf("field %q has max < min", r.Name))
		}
		seen[r.Name] = r
	}

	if _, ok := seen[model.FieldChannel]; !ok {
		errs = append(errs, fmt.Sprintf("missing canonical field %q", model.FieldChannel))
	}
	defaults := DefaultSchema()
	for _, name := range canonicalNumeric {
		r, ok := seen[name]
		want, _ := defaults.Rule(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("missing canonical field %q", name))
		case !r.Numeric:
			errs = append(errs, fmt.Sprintf("canonical field %q must be numeric", name))
		case !sameBounds(r, want):
			errs = append(errs, fmt.Sprintf("canonical field %q must keep bounds %s", name, want.boundsString()))
		}
	}

	if len(errs) > 0 {
		return Schema{}, eris.Errorf("validator: invalid schema: %s", strings.Join(errs, "; "))
	}

	out := make([]FieldRule, len(rules))
	copy(out, rules)
	return Schema{version: version, rules: out}, nil
}

// sameBounds reports whether two rules declare identical ranges.
func sameBounds(a, b FieldRule) bool {
	return a.HasMin == b.HasMin && a.HasMax == b.HasMax &&
		a.ExclusiveMin == b.ExclusiveMin &&
		(!a.HasMin || a.Min == b.Min) &&
		(!a.HasMax || a.Max == b.Max)
}

func (r FieldRule) boundsString() string {
	lo, hi := "(-inf", "+inf)"
	if r.HasMin {
		lo = fmt.Sprintf("[%g", r.Min)
		if r.ExclusiveMin {
			lo = fmt.Sprintf("(%g", r.Min)
		}
	}
	if r.HasMax {
		hi = fmt.Sprintf("%g]", r.Max)
	}
	return lo + ", " + hi
}

// schemaFile is the YAML form of a schema.
type schemaFile struct {
	Version string `yaml:"version"`
	Fields  []struct {
		Name         string   `yaml:"name"`
		Label        string   `yaml:"label"`
		Description  string   `yaml:"description"`
		Type         string   `yaml:"type"`
		Min          *float64 `yaml:"min"`
		Max          *float64 `yaml:"max"`
		ExclusiveMin bool     `yaml:"exclusive_min"`
	} `yaml:"fields"`
}

// LoadSchema reads a schema from a YAML file.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, eris.Wrapf(err, "validator: read schema %s", path)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML schema document.
func ParseSchema(data []byte) (Schema, error) {
	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Schema{}, eris.Wrap(err, "validator: parse schema")
	}

	rules := make([]FieldRule, 0, len(f.Fields))
	for _, fd := range f.Fields {
		r := FieldRule{
			Name:         strings.TrimSpace(fd.Name),
			Label:        fd.Label,
			Description:  fd.Description,
			ExclusiveMin: fd.ExclusiveMin,
		}
		switch strings.ToLower(strings.TrimSpace(fd.Type)) {
		case "number", "numeric", "float":
			r.Numeric = true
		case "", "string", "text":
		default:
			return Schema{}, eris.Errorf("validator: field %q has unknown type %q", fd.Name, fd.Type)
		}
		if fd.Min != nil {
			r.Min, r.HasMin = *fd.Min, true
		}
		if fd.Max != nil {
			r.Max, r.HasMax = *fd.Max, true
		}
		if r.Label == "" {
			r.Label = r.Name
		}
		rules = append(rules, r)
	}

	return NewSchema(f.Version, rules)
}
