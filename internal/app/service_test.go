package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/healthwatch/riskd/internal/app"
	"github.com/healthwatch/riskd/internal/domain/model"
	"github.com/healthwatch/riskd/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service with default options", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		svc := service.New(service.WithModelArtifact(t.TempDir(), "health_risk_model.bin"))

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should become ready", func() {
				So(err, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)

				svc.Stop()
				So(svc.Ready(), ShouldBeFalse)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				svc.Stop()
			})
		})

		Convey("When no model artifact exists", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the service still serves via the rule-based scorer", func() {
				So(svc.ModelLoaded(), ShouldBeFalse)

				m, err := model.NewHealthMetrics(45, 28.5, 135)
				So(err, ShouldBeNil)
				a, err := svc.Assess(ctx, m)
				So(err, ShouldBeNil)
				So(a.RiskLevel, ShouldEqual, model.RiskLevelMedium)
			})
		})
	})
}

func TestService_Assess(t *testing.T) {
	Convey("Given a started service", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		svc := service.New(service.WithModelArtifact(t.TempDir(), "health_risk_model.bin"))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When assessing valid metrics", func() {
			m, err := model.NewHealthMetrics(75, 35.0, 170)
			So(err, ShouldBeNil)

			a, err := svc.Assess(ctx, m)
			So(err, ShouldBeNil)

			Convey("Then the result should carry a valid level and score", func() {
				So(a.RiskLevel.IsValid(), ShouldBeTrue)
				So(a.RiskScore, ShouldBeBetweenOrEqual, 0.0, 1.0)
			})

			Convey("And the stats counters should advance", func() {
				stats := svc.GetStats()
				So(stats["assessmentsTotal"], ShouldBeGreaterThanOrEqualTo, 1)
				So(stats["started"], ShouldBeTrue)
				So(stats["modelLoaded"], ShouldBeFalse)
			})
		})

		Convey("When assessing metrics that violate invariants", func() {
			bad := model.HealthMetrics{Age: 200, BMI: 22.0, SystolicBP: 120}

			_, err := svc.Assess(ctx, bad)

			Convey("Then a validation error should propagate", func() {
				var verr *model.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("When assessing", func() {
			m := model.HealthMetrics{Age: 45, BMI: 28.5, SystolicBP: 135}
			_, err := svc.Assess(context.Background(), m)

			Convey("Then it should refuse", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Options(t *testing.T) {
	Convey("Given custom service options", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("When a custom confidence is configured", func() {
			svc := service.New(
				service.WithConfidence(0.7),
				service.WithModelArtifact(t.TempDir(), "health_risk_model.bin"),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			m, err := model.NewHealthMetrics(30, 22.0, 110)
			So(err, ShouldBeNil)
			a, err := svc.Assess(ctx, m)
			So(err, ShouldBeNil)

			Convey("Then assessments should carry it", func() {
				So(a.Confidence, ShouldEqual, 0.7)
			})
		})
	})
}
