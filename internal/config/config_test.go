package config_test

import (
	"testing"

	"github.com/healthwatch/riskd/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.APIPrefix, convey.ShouldEqual, "/api/v1")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			convey.So(cfg.AgeWeight, convey.ShouldEqual, 0.30)
			convey.So(cfg.BMIWeight, convey.ShouldEqual, 0.35)
			convey.So(cfg.BPWeight, convey.ShouldEqual, 0.35)
			convey.So(cfg.Confidence, convey.ShouldEqual, 0.85)
			convey.So(cfg.ModelPath, convey.ShouldEqual, "/models")
			convey.So(cfg.ModelName, convey.ShouldEqual, "health_risk_model.bin")
		})

		convey.Convey("Then the default weights should sum to 1.0", func() {
			convey.So(cfg.AgeWeight+cfg.BMIWeight+cfg.BPWeight, convey.ShouldAlmostEqual, 1.0, 1e-12)
		})
	})
}
