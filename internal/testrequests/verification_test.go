package testrequests

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func validAssessment() Assessment {
	return Assessment{
		RiskScore:  0.431,
		RiskLevel:  "MEDIUM",
		Confidence: 0.85,
		ContributingFactors: []string{
			"Age (45 years) is a significant risk factor",
			"BMI (28.5) indicates overweight",
			"Blood pressure (135 mmHg) is elevated",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func TestVerifyAssessment(t *testing.T) {
	Convey("Given an assessment matching the contract", t, func() {
		profile := Profile{Archetype: "overweight", Age: 45, BMI: 28.5, SystolicBP: 135}

		Convey("Then verification should find no problems", func() {
			So(verifyAssessment(profile, validAssessment()), ShouldBeEmpty)
		})

		Convey("When the level disagrees with the score", func() {
			a := validAssessment()
			a.RiskLevel = "HIGH"

			Convey("Then verification should flag it", func() {
				So(verifyAssessment(profile, a), ShouldNotBeEmpty)
			})
		})

		Convey("When the score is out of range", func() {
			a := validAssessment()
			a.RiskScore = 1.2

			Convey("Then verification should flag it", func() {
				So(verifyAssessment(profile, a), ShouldNotBeEmpty)
			})
		})

		Convey("When factors are out of metric order", func() {
			a := validAssessment()
			a.ContributingFactors = []string{
				"BMI (28.5) indicates overweight",
				"Age (45 years) is a significant risk factor",
			}

			Convey("Then verification should flag it", func() {
				So(verifyAssessment(profile, a), ShouldNotBeEmpty)
			})
		})

		Convey("When the timestamp is not RFC3339", func() {
			a := validAssessment()
			a.Timestamp = "yesterday"

			Convey("Then verification should flag it", func() {
				So(verifyAssessment(profile, a), ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given a healthy profile", t, func() {
		profile := Profile{Archetype: "healthy", Age: 25, BMI: 22.0, SystolicBP: 110}

		Convey("When the assessment reports elevated risk", func() {
			a := Assessment{
				RiskScore:           0.3,
				RiskLevel:           "MEDIUM",
				Confidence:          0.85,
				ContributingFactors: []string{},
				Timestamp:           time.Now().UTC().Format(time.RFC3339),
			}

			Convey("Then the cohort expectation should fail", func() {
				So(verifyAssessment(profile, a), ShouldNotBeEmpty)
			})
		})

		Convey("When the assessment reports LOW with no factors", func() {
			a := Assessment{
				RiskScore:           0.05,
				RiskLevel:           "LOW",
				Confidence:          0.85,
				ContributingFactors: []string{},
				Timestamp:           time.Now().UTC().Format(time.RFC3339),
			}

			Convey("Then verification should pass", func() {
				So(verifyAssessment(profile, a), ShouldBeEmpty)
			})
		})
	})
}

func TestLevelForScore(t *testing.T) {
	Convey("Given the band boundaries", t, func() {
		Convey("Then each boundary should map to the higher band", func() {
			So(levelForScore(0.0), ShouldEqual, "LOW")
			So(levelForScore(0.25), ShouldEqual, "MEDIUM")
			So(levelForScore(0.5), ShouldEqual, "HIGH")
			So(levelForScore(0.75), ShouldEqual, "CRITICAL")
			So(levelForScore(1.0), ShouldEqual, "CRITICAL")
		})
	})
}
