package validator

import (
	"errors"

	"github.com/sells-group/campaign-cli/internal/model"
)

// Outcome is the result of validating a batch: either the typed campaigns
// or the reason the batch was rejected.
type Outcome struct {
	campaigns []model.Campaign
	err       error
}

// Valid wraps a successfully validated batch.
func Valid(campaigns []model.Campaign) Outcome {
	return Outcome{campaigns: campaigns}
}

// Invalid wraps a rejection. A nil err is treated as an empty batch.
func Invalid(err error) Outcome {
	if err == nil {
		err = model.ErrEmptyBatch
	}
	return Outcome{err: err}
}

// OK reports whether the batch passed validation.
func (o Outcome) OK() bool { return o.err == nil }

// Campaigns returns the typed batch, or nil when invalid.
func (o Outcome) Campaigns() []model.Campaign { return o.campaigns }

// Err returns the rejection error, or nil when valid.
func (o Outcome) Err() error { return o.err }

// Reason returns the human-readable rejection message, or "" when valid.
func (o Outcome) Reason() string {
	if o.err == nil {
		return ""
	}
	return Reason(o.err)
}

// Reason extracts the taxonomy message from err, falling back to err.Error().
func Reason(err error) string {
	var (
		missing *model.MissingFieldsError
		typ     *model.InvalidTypeError
		rng     *model.InvalidRangeError
		inc     *model.InconsistencyError
	)
	switch {
	case errors.Is(err, model.ErrEmptyBatch):
		return model.ErrEmptyBatch.Error()
	case errors.As(err, &missing):
		return missing.Error()
	case errors.As(err, &typ):
		return typ.Error()
	case errors.As(err, &rng):
		return rng.Error()
	case errors.As(err, &inc):
		return inc.Error()
	default:
		return err.Error()
	}
}
