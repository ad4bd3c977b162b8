// Package pipeline runs a campaign batch through validation, scoring,
// classification and recommendation.
package pipeline

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/recommend"
	"github.com/sells-group/campaign-cli/internal/scorer"
	"github.com/sells-group/campaign-cli/internal/validator"
)

// Stage names a step of the batch state machine.
type Stage string

// Batch stages. Validating is the only stage that rejects input; a failure
// after it is an internal inconsistency.
const (
	StageStart        Stage = "start"
	StageValidating   Stage = "validating"
	StageFailed       Stage = "failed"
	StageScoring      Stage = "scoring"
	StageClassifying  Stage = "classifying"
	StageRecommending Stage = "recommending"
	StageDone         Stage = "done"
)

// scoreTolerance absorbs float rounding at the [0,1] score bounds.
const scoreTolerance = 1e-9

// Pipeline scores validated campaign batches.
type Pipeline struct {
	validator *validator.Validator
}

// New creates a Pipeline that validates with v.
func New(v *validator.Validator) *Pipeline {
	return &Pipeline{validator: v}
}

// Default creates a Pipeline using the built-in campaign schema.
func Default() *Pipeline {
	return New(validator.New(validator.DefaultSchema()))
}

// Schema returns the schema enforced by the pipeline's validator.
func (p *Pipeline) Schema() validator.Schema {
	return p.validator.Schema()
}

// Validate runs only the validation stage.
func (p *Pipeline) Validate(records []model.RawRecord) validator.Outcome {
	return p.validator.Check(records)
}

// Run validates the whole batch, then scores, classifies and recommends each
// campaign in input order. No report is produced unless every record is
// valid.
func (p *Pipeline) Run(records []model.RawRecord) (*model.BatchReport, error) {
	log := zap.L().With(zap.Int("records", len(records)))

	campaigns, err := p.validator.Validate(records)
	if err != nil {
		log.Warn("pipeline: batch rejected",
			zap.String("stage", string(StageValidating)),
			zap.String("code", model.ErrorCode(err)),
			zap.Error(err),
		)
		return nil, err
	}
	log.Debug("pipeline: stage complete", zap.String("stage", string(StageValidating)))

	reports := make([]model.CampaignReport, 0, len(campaigns))
	for i, c := range campaigns {
		cr, err := Evaluate(i, c)
		if err != nil {
			log.Error("pipeline: batch failed",
				zap.String("stage", string(StageFailed)),
				zap.String("channel", c.Channel),
				zap.Error(err),
			)
			return nil, err
		}
		reports = append(reports, cr)
	}

	schema := p.validator.Schema()
	batch := &model.BatchReport{
		SchemaVersion: schema.Version(),
		Count:         len(reports),
		Fields:        schema.FieldNames(),
		Campaigns:     reports,
	}

	counts := batch.TierCounts()
	log.Info("pipeline: batch scored",
		zap.String("stage", string(StageDone)),
		zap.Int("high", counts[model.TierHigh]),
		zap.Int("moderate", counts[model.TierModerate]),
		zap.Int("low", counts[model.TierLow]),
		zap.Float64("total_spend", batch.TotalSpend()),
	)
	return batch, nil
}

// Evaluate scores, classifies and recommends a single validated campaign.
// idx is the campaign's position in its batch and is used in errors only.
func Evaluate(idx int, c model.Campaign) (model.CampaignReport, error) {
	metrics := []struct {
		name  string
		value float64
	}{
		{model.FieldSalesConversion, c.SalesConversion},
		{model.FieldClickThroughRate, c.ClickThroughRate},
		{model.FieldCustomerRetention, c.CustomerRetention},
	}
	for _, m := range metrics {
		if math.IsNaN(m.value) || m.value < 0 || m.value > 1 {
			return model.CampaignReport{}, inconsistent(StageScoring, idx, fmt.Sprintf("%s=%v outside [0,1]", m.name, m.value))
		}
	}

	comp := scorer.Components(c)
	score := scorer.Score(c)
	if math.IsNaN(score) || score < -scoreTolerance || score > 1+scoreTolerance {
		return model.CampaignReport{}, inconsistent(StageScoring, idx, fmt.Sprintf("score=%v outside [0,1]", score))
	}

	tier := scorer.Classify(score)
	if !tier.Valid() {
		return model.CampaignReport{}, inconsistent(StageClassifying, idx, fmt.Sprintf("no tier for score=%v", score))
	}

	if math.IsNaN(c.AdSpend) || math.IsInf(c.AdSpend, 0) || c.AdSpend <= 0 {
		return model.CampaignReport{}, inconsistent(StageRecommending, idx, fmt.Sprintf("ad_spend=%v not positive", c.AdSpend))
	}
	rec := recommend.Recommend(tier, c.AdSpend)

	return model.CampaignReport{
		Campaign: c,
		Result: model.ScoreResult{
			Score:      score,
			Tier:       tier,
			Components: comp,
		},
		Recommendation: rec,
	}, nil
}

func inconsistent(stage Stage, idx int, detail string) error {
	return &model.InconsistencyError{Stage: string(stage), Index: idx, Detail: detail}
}
