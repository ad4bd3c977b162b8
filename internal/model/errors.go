package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes exposed to callers that need a stable identifier.
const (
	CodeEmptyBatch            = "empty_batch"
	CodeMissingFields         = "missing_fields"
	CodeInvalidType           = "invalid_type"
	CodeInvalidRange          = "invalid_range"
	CodeInternalInconsistency = "internal_inconsistency"
)

// ErrEmptyBatch is returned when a batch contains no records.
var ErrEmptyBatch = errors.New("No campaign data provided.") //nolint:staticcheck

// MissingFieldsError reports every required field absent from one record.
// Index is zero-based; messages number campaigns from 1.
type MissingFieldsError struct {
	Index  int
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("campaign %d: Missing required field(s): %s", e.Index+1, strings.Join(e.Fields, ", "))
}

// InvalidTypeError reports a numeric field whose value does not parse as a number.
type InvalidTypeError struct {
	Index int
	Field string
	Value any
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("campaign %d: Invalid data type for field: %s. Please ensure numeric values.", e.Index+1, e.Field)
}

// InvalidRangeError reports a numeric field outside its declared domain.
type InvalidRangeError struct {
	Index int
	Field string
	Value float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("campaign %d: Invalid value for field: %s. Please check the allowed ranges.", e.Index+1, e.Field)
}

// InconsistencyError is raised by a stage after validation that receives a
// value the validator should have rejected.
type InconsistencyError struct {
	Stage  string
	Index  int
	Detail string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("internal inconsistency in %s stage (campaign %d): %s", e.Stage, e.Index+1, e.Detail)
}

// ErrorCode maps an error from the taxonomy to its code. Errors outside the
// taxonomy return "".
func ErrorCode(err error) string {
	var (
		missing *MissingFieldsError
		typ     *InvalidTypeError
		rng     *InvalidRangeError
		inc     *InconsistencyError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyBatch):
		return CodeEmptyBatch
	case errors.As(err, &missing):
		return CodeMissingFields
	case errors.As(err, &typ):
		return CodeInvalidType
	case errors.As(err, &rng):
		return CodeInvalidRange
	case errors.As(err, &inc):
		return CodeInternalInconsistency
	default:
		return ""
	}
}

// IsValidationError reports whether err rejects the batch as invalid input,
// as opposed to an internal failure.
func IsValidationError(err error) bool {
	switch ErrorCode(err) {
	case CodeEmptyBatch, CodeMissingFields, CodeInvalidType, CodeInvalidRange:
		return true
	default:
		return false
	}
}
