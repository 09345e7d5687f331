package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/healthwatch/riskd/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_Load(t *testing.T) {
	convey.Convey("Given no overrides in the environment", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then defaults should load cleanly", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.ServiceName, convey.ShouldEqual, "riskd-inference-api")
		})
	})

	convey.Convey("Given environment variable overrides", t, func() {
		_ = os.Setenv("RISKD_ADDR", ":9090")
		_ = os.Setenv("RISKD_LOG_LEVEL", "debug")
		_ = os.Setenv("RISKD_CONFIDENCE", "0.9")
		defer func() {
			_ = os.Unsetenv("RISKD_ADDR")
			_ = os.Unsetenv("RISKD_LOG_LEVEL")
			_ = os.Unsetenv("RISKD_CONFIDENCE")
		}()

		cfg, err := config.Load(context.Background())

		convey.Convey("Then env values should win over defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			convey.So(cfg.Confidence, convey.ShouldEqual, 0.9)
		})
	})

	convey.Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "riskd.yaml")
		yaml := "addr: \":7070\"\nbmi_report_threshold: 0.4\n"
		convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
		_ = os.Setenv("RISKD_CONFIG", path)
		defer func() { _ = os.Unsetenv("RISKD_CONFIG") }()

		cfg, err := config.Load(context.Background())

		convey.Convey("Then file values should layer over defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			convey.So(cfg.BMIReportThreshold, convey.ShouldEqual, 0.4)
			convey.So(cfg.AgeWeight, convey.ShouldEqual, 0.30)
		})

		convey.Convey("And env should still win over the file", func() {
			_ = os.Setenv("RISKD_ADDR", ":6060")
			defer func() { _ = os.Unsetenv("RISKD_ADDR") }()

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
		})
	})

	convey.Convey("Given weights that do not sum to 1.0", t, func() {
		_ = os.Setenv("RISKD_AGE_WEIGHT", "0.9")
		defer func() { _ = os.Unsetenv("RISKD_AGE_WEIGHT") }()

		_, err := config.Load(context.Background())

		convey.Convey("Then loading should fail with an invalid-config error", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a confidence outside (0,1]", t, func() {
		_ = os.Setenv("RISKD_CONFIDENCE", "1.5")
		defer func() { _ = os.Unsetenv("RISKD_CONFIDENCE") }()

		_, err := config.Load(context.Background())

		convey.Convey("Then loading should fail", func() {
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
