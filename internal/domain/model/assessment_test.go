package model_test

import (
	"errors"
	"testing"

	model "github.com/healthwatch/riskd/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewHealthMetrics(t *testing.T) {
	convey.Convey("Given metric values within physiological ranges", t, func() {
		m, err := model.NewHealthMetrics(45, 28.5, 135)

		convey.Convey("Then construction should succeed", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(m.Age, convey.ShouldEqual, 45)
			convey.So(m.BMI, convey.ShouldEqual, 28.5)
			convey.So(m.SystolicBP, convey.ShouldEqual, 135)
		})
	})

	convey.Convey("Given an age of zero", t, func() {
		_, err := model.NewHealthMetrics(0, 22.0, 120)

		convey.Convey("Then construction should fail with a validation error", func() {
			convey.So(err, convey.ShouldNotBeNil)
			var verr *model.ValidationError
			convey.So(errors.As(err, &verr), convey.ShouldBeTrue)
			convey.So(verr.Field, convey.ShouldEqual, "age")
		})
	})

	convey.Convey("Given an implausibly low BMI", t, func() {
		_, err := model.NewHealthMetrics(30, 5.0, 120)

		convey.Convey("Then construction should fail on the bmi field", func() {
			var verr *model.ValidationError
			convey.So(errors.As(err, &verr), convey.ShouldBeTrue)
			convey.So(verr.Field, convey.ShouldEqual, "bmi")
		})
	})

	convey.Convey("Given a blood pressure above 300 mmHg", t, func() {
		_, err := model.NewHealthMetrics(30, 22.0, 400)

		convey.Convey("Then construction should fail on the blood pressure field", func() {
			var verr *model.ValidationError
			convey.So(errors.As(err, &verr), convey.ShouldBeTrue)
			convey.So(verr.Field, convey.ShouldEqual, "blood_pressure_systolic")
		})
	})

	convey.Convey("Given values exactly at the range boundaries", t, func() {
		convey.Convey("Then the inclusive boundaries should be accepted", func() {
			_, err := model.NewHealthMetrics(model.MinAge, model.MinBMI, model.MinSystolicBP)
			convey.So(err, convey.ShouldBeNil)

			_, err = model.NewHealthMetrics(model.MaxAge, model.MaxBMI, model.MaxSystolicBP)
			convey.So(err, convey.ShouldBeNil)
		})
	})
}

func TestLevelForScore(t *testing.T) {
	convey.Convey("Given the fixed risk band boundaries", t, func() {
		convey.Convey("Then scores map to lower-inclusive bands", func() {
			convey.So(model.LevelForScore(0.0), convey.ShouldEqual, model.RiskLevelLow)
			convey.So(model.LevelForScore(0.249), convey.ShouldEqual, model.RiskLevelLow)
			convey.So(model.LevelForScore(0.25), convey.ShouldEqual, model.RiskLevelMedium)
			convey.So(model.LevelForScore(0.499), convey.ShouldEqual, model.RiskLevelMedium)
			convey.So(model.LevelForScore(0.5), convey.ShouldEqual, model.RiskLevelHigh)
			convey.So(model.LevelForScore(0.749), convey.ShouldEqual, model.RiskLevelHigh)
			convey.So(model.LevelForScore(0.75), convey.ShouldEqual, model.RiskLevelCritical)
			convey.So(model.LevelForScore(1.0), convey.ShouldEqual, model.RiskLevelCritical)
		})

		convey.Convey("Then the mapping is monotonic in the score", func() {
			scores := []float64{0.0, 0.1, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 1.0}
			for i := 1; i < len(scores); i++ {
				lower := model.LevelForScore(scores[i-1])
				higher := model.LevelForScore(scores[i])
				convey.So(higher.Less(lower), convey.ShouldBeFalse)
			}
		})
	})
}

func TestParseRiskLevel(t *testing.T) {
	convey.Convey("Given risk level strings in mixed case", t, func() {
		convey.Convey("Then parsing should be case-insensitive", func() {
			for _, s := range []string{"low", "LOW", "Low", " low "} {
				l, err := model.ParseRiskLevel(s)
				convey.So(err, convey.ShouldBeNil)
				convey.So(l, convey.ShouldEqual, model.RiskLevelLow)
			}
		})

		convey.Convey("Then unknown values should be rejected", func() {
			_, err := model.ParseRiskLevel("severe")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given the four levels", t, func() {
		convey.Convey("Then ordering should be LOW < MEDIUM < HIGH < CRITICAL", func() {
			convey.So(model.RiskLevelLow.Less(model.RiskLevelMedium), convey.ShouldBeTrue)
			convey.So(model.RiskLevelMedium.Less(model.RiskLevelHigh), convey.ShouldBeTrue)
			convey.So(model.RiskLevelHigh.Less(model.RiskLevelCritical), convey.ShouldBeTrue)
			convey.So(model.RiskLevelCritical.Less(model.RiskLevelHigh), convey.ShouldBeFalse)
		})
	})
}
