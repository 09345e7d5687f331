// Package scoring defines the contract for computing risk assessments from
// patient health metrics.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/healthwatch/riskd/internal/domain/model"
)

// Default policy constants. Weights must sum to 1.0.
const (
	defaultAgeWeight  = 0.30
	defaultBMIWeight  = 0.35
	defaultBPWeight   = 0.35
	defaultConfidence = 0.85

	// A metric becomes a contributing factor once its sub-score exceeds
	// this threshold.
	defaultReportingThreshold = 0.25

	weightSumTolerance = 1e-9
)

// Sub-score shape constants. Each sub-score is a piecewise-linear ramp over
// the metric's clinical bands, clamped to [0,1].
const (
	// Baseline sub-score inside the healthy band for every metric.
	healthyBaseline = 0.05

	// Age risk accumulates past 40 and saturates at 80.
	ageRampStart = 40
	ageRampEnd   = 80
	ageRampFloor = 0.20

	// Standard clinical BMI bands. Risk is U-shaped around 18.5-24.9.
	bmiUnderweightLimit = 18.5
	bmiOverweightStart  = 25.0
	bmiObeseStart       = 30.0
	bmiObeseSaturation  = 45.0
	bmiSevereUnderLimit = 13.0
	bmiUnderweightFloor = 0.30
	bmiOverweightFloor  = 0.30
	bmiObeseFloor       = 0.55

	// Systolic pressure bands: elevated, stage 1, stage 2, crisis.
	bpElevatedStart = 120
	bpStage1Start   = 130
	bpStage2Start   = 140
	bpCrisisStart   = 180
	bpElevatedFloor = 0.25
	bpElevatedCeil  = 0.385
	bpStage1Floor   = 0.40
	bpStage2Floor   = 0.60
	bpStage2Ceil    = 0.95
)

// Scorer computes a risk assessment from validated metrics. The rule-based
// implementation below is one variant; a learned model can implement the
// same contract later without changing callers.
type Scorer interface {
	Assess(ctx context.Context, m model.HealthMetrics) (model.RiskAssessment, error)
}

// Option applies a configuration option to the RuleBasedScorer.
type Option func(*RuleBasedScorer)

// WithWeights sets the per-metric combination weights. Applied only when all
// weights are positive and sum to 1.0.
func WithWeights(age, bmi, bp float64) Option {
	return func(s *RuleBasedScorer) {
		if age <= 0 || bmi <= 0 || bp <= 0 {
			return
		}
		if math.Abs(age+bmi+bp-1.0) > weightSumTolerance {
			return
		}
		s.ageWeight = age
		s.bmiWeight = bmi
		s.bpWeight = bp
	}
}

// WithConfidence sets the fixed confidence reported on every assessment.
func WithConfidence(c float64) Option {
	return func(s *RuleBasedScorer) {
		if c > 0 && c <= 1 {
			s.confidence = c
		}
	}
}

// WithReportingThresholds sets the per-metric sub-score thresholds above
// which a metric is reported as a contributing factor.
func WithReportingThresholds(age, bmi, bp float64) Option {
	return func(s *RuleBasedScorer) {
		if age >= 0 && age <= 1 {
			s.ageReportAt = age
		}
		if bmi >= 0 && bmi <= 1 {
			s.bmiReportAt = bmi
		}
		if bp >= 0 && bp <= 1 {
			s.bpReportAt = bp
		}
	}
}

// WithClock overrides the assessment timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *RuleBasedScorer) {
		if now != nil {
			s.now = now
		}
	}
}

// RuleBasedScorer implements Scorer with a deterministic weighted
// combination of per-metric sub-scores. It holds no mutable state and is
// safe for concurrent use.
type RuleBasedScorer struct {
	ageWeight float64
	bmiWeight float64
	bpWeight  float64

	confidence float64

	ageReportAt float64
	bmiReportAt float64
	bpReportAt  float64

	now func() time.Time
}

// NewRuleBasedScorer creates a scorer with the default policy constants.
func NewRuleBasedScorer(opts ...Option) *RuleBasedScorer {
	s := &RuleBasedScorer{
		ageWeight:   defaultAgeWeight,
		bmiWeight:   defaultBMIWeight,
		bpWeight:    defaultBPWeight,
		confidence:  defaultConfidence,
		ageReportAt: defaultReportingThreshold,
		bmiReportAt: defaultReportingThreshold,
		bpReportAt:  defaultReportingThreshold,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Assess computes the risk assessment for the given metrics. Identical
// metrics always yield identical scores, levels, confidence, and factors;
// only the timestamp varies. No I/O is performed.
func (s *RuleBasedScorer) Assess(_ context.Context, m model.HealthMetrics) (model.RiskAssessment, error) {
	if err := m.Validate(); err != nil {
		return model.RiskAssessment{}, err
	}

	ageScore := clamp01(ageSubScore(m.Age))
	bmiScore := clamp01(bmiSubScore(m.BMI))
	bpScore := clamp01(bpSubScore(m.SystolicBP))

	score := s.ageWeight*ageScore + s.bmiWeight*bmiScore + s.bpWeight*bpScore
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return model.RiskAssessment{}, fmt.Errorf("combined score is not finite: %w", ErrComputation)
	}
	if score < 0 || score > 1 {
		return model.RiskAssessment{}, fmt.Errorf("combined score %v outside [0,1]: %w", score, ErrComputation)
	}

	rounded := math.Round(score*1000) / 1000

	return model.RiskAssessment{
		RiskScore:           rounded,
		RiskLevel:           model.LevelForScore(rounded),
		Confidence:          s.confidence,
		ContributingFactors: s.factors(m, ageScore, bmiScore, bpScore),
		Timestamp:           s.now().UTC(),
	}, nil
}

// factors lists an explanation per metric whose sub-score exceeds its
// reporting threshold, always in age, BMI, blood pressure order.
func (s *RuleBasedScorer) factors(m model.HealthMetrics, ageScore, bmiScore, bpScore float64) []string {
	factors := []string{}

	if ageScore > s.ageReportAt {
		factors = append(factors, fmt.Sprintf("Age (%d years) is a significant risk factor", m.Age))
	}
	if bmiScore > s.bmiReportAt {
		factors = append(factors, fmt.Sprintf("BMI (%.1f) indicates %s", m.BMI, bmiLabel(m.BMI)))
	}
	if bpScore > s.bpReportAt {
		factors = append(factors, fmt.Sprintf("Blood pressure (%d mmHg) is %s", m.SystolicBP, bpLabel(m.SystolicBP)))
	}

	return factors
}

// ageSubScore ramps from a floor at 40 to saturation at 80. Below the
// baseline age the contribution stays near zero.
func ageSubScore(age int) float64 {
	if age <= ageRampStart {
		return healthyBaseline
	}
	if age >= ageRampEnd {
		return 1.0
	}
	return ramp(float64(age), ageRampStart, ageRampEnd, ageRampFloor, 1.0)
}

// bmiSubScore is U-shaped relative to the normal band: underweight and
// obese both elevate risk, with severity growing away from normal.
func bmiSubScore(bmi float64) float64 {
	switch {
	case bmi < bmiUnderweightLimit:
		if bmi <= bmiSevereUnderLimit {
			return 1.0
		}
		// Severity grows as BMI falls below 18.5.
		return ramp(bmiUnderweightLimit-bmi, 0, bmiUnderweightLimit-bmiSevereUnderLimit, bmiUnderweightFloor, 1.0)
	case bmi < bmiOverweightStart:
		return healthyBaseline
	case bmi < bmiObeseStart:
		return ramp(bmi, bmiOverweightStart, bmiObeseStart, bmiOverweightFloor, bmiObeseFloor)
	case bmi < bmiObeseSaturation:
		return ramp(bmi, bmiObeseStart, bmiObeseSaturation, bmiObeseFloor, 1.0)
	default:
		return 1.0
	}
}

// bpSubScore rises through the elevated and hypertensive bands and
// saturates at hypertensive-crisis pressure.
func bpSubScore(bp int) float64 {
	p := float64(bp)
	switch {
	case bp < bpElevatedStart:
		return healthyBaseline
	case bp < bpStage1Start:
		return ramp(p, bpElevatedStart, bpStage1Start, bpElevatedFloor, bpElevatedCeil)
	case bp < bpStage2Start:
		return ramp(p, bpStage1Start, bpStage2Start, bpStage1Floor, bpStage2Floor)
	case bp < bpCrisisStart:
		return ramp(p, bpStage2Start, bpCrisisStart, bpStage2Floor, bpStage2Ceil)
	default:
		return 1.0
	}
}

// bmiLabel returns the clinical band name for a BMI value.
func bmiLabel(bmi float64) string {
	switch {
	case bmi < bmiUnderweightLimit:
		return "underweight"
	case bmi < bmiObeseStart:
		return "overweight"
	default:
		return "obesity"
	}
}

// bpLabel qualifies a systolic reading above normal.
func bpLabel(bp int) string {
	if bp < bpStage2Start {
		return "elevated"
	}
	return "in the hypertensive range"
}

// ramp linearly interpolates v in [lo,hi] onto [from,to].
func ramp(v, lo, hi, from, to float64) float64 {
	return from + (v-lo)/(hi-lo)*(to-from)
}

// clamp01 defensively bounds intermediate sub-scores to [0,1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
