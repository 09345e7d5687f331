package testrequests

import (
	"fmt"
	"strings"
	"time"
)

// Risk level band boundaries mirrored from the service contract.
const (
	mediumBoundary   = 0.25
	highBoundary     = 0.50
	criticalBoundary = 0.75
)

// verifyAssessment checks one assessment against the service contract.
// It returns a description of every violated property.
func verifyAssessment(profile Profile, a Assessment) []string {
	var problems []string

	if a.RiskScore < 0.0 || a.RiskScore > 1.0 {
		problems = append(problems, fmt.Sprintf("risk_score %.3f outside [0, 1]", a.RiskScore))
	}

	if expected := levelForScore(a.RiskScore); a.RiskLevel != expected {
		problems = append(problems, fmt.Sprintf("risk_level %q does not match score %.3f (want %q)",
			a.RiskLevel, a.RiskScore, expected))
	}

	if a.Confidence <= 0.0 || a.Confidence > 1.0 {
		problems = append(problems, fmt.Sprintf("confidence %.3f outside (0, 1]", a.Confidence))
	}

	if a.ContributingFactors == nil {
		problems = append(problems, "contributing_factors is null, want an array")
	}
	if err := verifyFactorOrder(a.ContributingFactors); err != nil {
		problems = append(problems, err.Error())
	}

	if _, err := time.Parse(time.RFC3339, a.Timestamp); err != nil {
		problems = append(problems, "timestamp is not RFC3339: "+a.Timestamp)
	}

	if err := verifyArchetypeExpectation(profile, a); err != nil {
		problems = append(problems, err.Error())
	}

	return problems
}

// verifyFactorOrder checks that factors appear in metric order: age first,
// then BMI, then blood pressure, each at most once.
func verifyFactorOrder(factors []string) error {
	rank := func(factor string) (int, error) {
		switch {
		case strings.HasPrefix(factor, "Age"):
			return 0, nil
		case strings.HasPrefix(factor, "BMI"):
			return 1, nil
		case strings.HasPrefix(factor, "Blood pressure"):
			return 2, nil
		default:
			return 0, fmt.Errorf("unrecognized contributing factor: %q", factor)
		}
	}

	prev := -1
	for _, factor := range factors {
		r, err := rank(factor)
		if err != nil {
			return err
		}
		if r <= prev {
			return fmt.Errorf("contributing factors out of metric order: %v", factors)
		}
		prev = r
	}
	return nil
}

// verifyArchetypeExpectation checks cohort-level expectations: healthy
// profiles should score LOW with no factors, elderly hypertensive profiles
// should never score LOW.
func verifyArchetypeExpectation(profile Profile, a Assessment) error {
	switch profile.Archetype {
	case "healthy":
		if a.RiskLevel != "LOW" {
			return fmt.Errorf("healthy profile %+v scored %s, want LOW", profile, a.RiskLevel)
		}
		if len(a.ContributingFactors) != 0 {
			return fmt.Errorf("healthy profile %+v has factors %v, want none", profile, a.ContributingFactors)
		}
	case "elderly_hypertensive":
		if a.RiskLevel == "LOW" {
			return fmt.Errorf("elderly hypertensive profile %+v scored LOW", profile)
		}
	case "boundary_high":
		if a.RiskLevel != "CRITICAL" {
			return fmt.Errorf("maximal profile %+v scored %s, want CRITICAL", profile, a.RiskLevel)
		}
	}
	return nil
}

// levelForScore mirrors the service's lower-inclusive band mapping.
func levelForScore(score float64) string {
	switch {
	case score >= criticalBoundary:
		return "CRITICAL"
	case score >= highBoundary:
		return "HIGH"
	case score >= mediumBoundary:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
