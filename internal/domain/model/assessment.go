// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RiskLevel is the discretized risk band derived from a risk score.
// Levels are ordered: LOW < MEDIUM < HIGH < CRITICAL.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Risk band boundaries. Each band is inclusive on the lower end and
// exclusive on the upper end; the critical band includes 1.0.
const (
	mediumBoundary   = 0.25
	highBoundary     = 0.50
	criticalBoundary = 0.75
)

// Physiological range invariants enforced at construction.
const (
	MinAge        = 1
	MaxAge        = 150
	MinBMI        = 10.0
	MaxBMI        = 80.0
	MinSystolicBP = 50
	MaxSystolicBP = 300
)

// String returns the wire representation of the level.
func (l RiskLevel) String() string {
	return string(l)
}

// IsValid reports whether the level is a known value.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return true
	default:
		return false
	}
}

// rank gives each level its position in the ordering.
func (l RiskLevel) rank() int {
	switch l {
	case RiskLevelLow:
		return 0
	case RiskLevelMedium:
		return 1
	case RiskLevelHigh:
		return 2
	case RiskLevelCritical:
		return 3
	default:
		return -1
	}
}

// Less reports whether l is strictly lower than other in the risk ordering.
func (l RiskLevel) Less(other RiskLevel) bool {
	return l.rank() < other.rank()
}

// ParseRiskLevel converts a string to a RiskLevel, accepting any case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	l := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("unknown risk level: %q", s)
	}
	return l, nil
}

// LevelForScore maps a risk score in [0,1] to its band. Boundaries are
// lower-inclusive so a score of exactly 0.25 is MEDIUM and 0.75 is CRITICAL.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score < mediumBoundary:
		return RiskLevelLow
	case score < highBoundary:
		return RiskLevelMedium
	case score < criticalBoundary:
		return RiskLevelHigh
	default:
		return RiskLevelCritical
	}
}

// ValidationError reports a metric outside its physiological range.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v (%s)", e.Field, e.Value, e.Reason)
}

// HealthMetrics holds a patient's input metrics. Construct via
// NewHealthMetrics so range invariants hold for the lifetime of the value.
type HealthMetrics struct {
	Age        int     // years
	BMI        float64 // body-mass index
	SystolicBP int     // systolic blood pressure, mmHg
}

// NewHealthMetrics validates the metrics and returns an immutable value.
// A *ValidationError is returned for the first metric out of range.
func NewHealthMetrics(age int, bmi float64, systolicBP int) (HealthMetrics, error) {
	m := HealthMetrics{Age: age, BMI: bmi, SystolicBP: systolicBP}
	if err := m.Validate(); err != nil {
		return HealthMetrics{}, err
	}
	return m, nil
}

// Validate checks the range invariants. Callers constructing metrics through
// NewHealthMetrics never see this fail.
func (m HealthMetrics) Validate() error {
	if m.Age < MinAge || m.Age > MaxAge {
		return &ValidationError{
			Field:  "age",
			Value:  m.Age,
			Reason: fmt.Sprintf("must be between %d and %d years", MinAge, MaxAge),
		}
	}
	if m.BMI < MinBMI || m.BMI > MaxBMI {
		return &ValidationError{
			Field:  "bmi",
			Value:  m.BMI,
			Reason: fmt.Sprintf("must be between %.1f and %.1f", MinBMI, MaxBMI),
		}
	}
	if m.SystolicBP < MinSystolicBP || m.SystolicBP > MaxSystolicBP {
		return &ValidationError{
			Field:  "blood_pressure_systolic",
			Value:  m.SystolicBP,
			Reason: fmt.Sprintf("must be between %d and %d mmHg", MinSystolicBP, MaxSystolicBP),
		}
	}
	return nil
}

// RiskAssessment is the result of scoring one set of metrics. Values are
// created per request and never mutated.
type RiskAssessment struct {
	RiskScore           float64   // overall score in [0,1], rounded to 3 decimals
	RiskLevel           RiskLevel // band derived from RiskScore
	Confidence          float64   // fixed algorithm certainty, (0,1]
	ContributingFactors []string  // per-metric explanations in fixed order
	Timestamp           time.Time // set at computation time, UTC
}
