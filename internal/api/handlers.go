package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/ingest"
	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/pipeline"
	"github.com/sells-group/campaign-cli/internal/recommend"
	"github.com/sells-group/campaign-cli/internal/report"
	"github.com/sells-group/campaign-cli/internal/scorer"
	"github.com/sells-group/campaign-cli/internal/validator"
)

const runIDHeader = "X-Run-ID"

// Codes for requests rejected before the pipeline runs.
const (
	codeInvalidFormat = "invalid_format"
	codeBodyTooLarge  = "body_too_large"
)

// Handlers serves the scoring endpoints.
type Handlers struct {
	pipeline     *pipeline.Pipeline
	maxBodyBytes int64
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type validateResponse struct {
	Valid  bool     `json:"valid"`
	Count  int      `json:"count,omitempty"`
	Fields []string `json:"fields,omitempty"`
	Error  string   `json:"error,omitempty"`
	Code   string   `json:"code,omitempty"`
}

type ruleRow struct {
	Tier           string `json:"tier"`
	Condition      string `json:"condition"`
	Recommendation string `json:"recommendation"`
}

type rulesResponse struct {
	Weights        map[string]float64 `json:"weights"`
	HighThreshold  float64            `json:"high_threshold"`
	LowThreshold   float64            `json:"low_threshold"`
	Recommendation []ruleRow          `json:"recommendations"`
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Rules returns the scoring constants and the decision table.
func (h *Handlers) Rules(w http.ResponseWriter, _ *http.Request) {
	resp := rulesResponse{
		Weights: map[string]float64{
			model.FieldSalesConversion:   scorer.SalesConversionWeight,
			model.FieldClickThroughRate:  scorer.ClickThroughRateWeight,
			model.FieldCustomerRetention: scorer.CustomerRetentionWeight,
		},
		HighThreshold: scorer.HighThreshold,
		LowThreshold:  scorer.LowThreshold,
	}
	for _, r := range recommend.Table() {
		resp.Recommendation = append(resp.Recommendation, ruleRow{
			Tier:           r.Tier.String(),
			Condition:      r.Condition,
			Recommendation: string(r.Recommendation),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Score runs the full pipeline on the request body. The report query
// parameter selects markdown (default), json or csv output.
func (h *Handlers) Score(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	w.Header().Set(runIDHeader, runID)
	log := zap.L().With(zap.String("run_id", runID))

	format, err := report.ParseFormat(r.URL.Query().Get("report"))
	if err != nil || format == report.FormatXLSX {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "report must be markdown, json or csv", Code: codeInvalidFormat})
		return
	}

	records, ok := h.decode(w, r)
	if !ok {
		return
	}

	batch, err := h.pipeline.Run(records)
	if err != nil {
		log.Warn("api: score failed", zap.Error(err))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := report.Write(w, format, batch, h.pipeline.Schema()); err != nil {
		log.Error("api: write report", zap.Error(err))
	}
}

// Validate checks the request body without scoring it.
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	records, ok := h.decode(w, r)
	if !ok {
		return
	}

	outcome := h.pipeline.Validate(records)
	if !outcome.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{
			Valid: false,
			Error: outcome.Reason(),
			Code:  model.ErrorCode(outcome.Err()),
		})
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:  true,
		Count:  len(outcome.Campaigns()),
		Fields: h.pipeline.Schema().FieldNames(),
	})
}

// bodyReader remembers the first read error so an oversized body can be
// told apart from a malformed one after the parser wraps it.
type bodyReader struct {
	io.ReadCloser
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && b.err == nil {
		b.err = err
	}
	return n, err
}

// decode parses the request body into raw records, writing a 413 response
// for an oversized body and a 400 response for any other failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request) ([]model.RawRecord, bool) {
	body := &bodyReader{ReadCloser: r.Body}
	if h.maxBodyBytes > 0 {
		body.ReadCloser = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	defer body.Close() //nolint:errcheck

	format := ingest.FormatFromContentType(r.Header.Get("Content-Type"))
	records, err := ingest.Parse(r.Context(), body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(body.err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				Code:  codeBodyTooLarge,
			})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: strings.TrimPrefix(report.FormatParseError(err), "ERROR: "),
			Code:  codeInvalidFormat,
		})
		return nil, false
	}
	return records, true
}

// writeError maps a pipeline error to a status code.
func writeError(w http.ResponseWriter, err error) {
	code := model.ErrorCode(err)
	status := http.StatusInternalServerError
	if model.IsValidationError(err) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: validator.Reason(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
