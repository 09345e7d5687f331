// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Service identity defaults.
const (
	defaultServiceName = "riskd-inference-api"
	defaultVersion     = "0.1.0"
)

// Config contains process configuration. Every tunable policy constant of
// the scoring algorithm is externalized here so weights and thresholds can
// be adjusted without touching the algorithm's structure.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: json (default) or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIPrefix is prepended to the business routes, e.g. "/api/v1".
	APIPrefix string `koanf:"api_prefix"`

	// ServiceName and Version identify the service on / and /health.
	ServiceName string `koanf:"service_name"`
	Version     string `koanf:"version"`

	// AgeWeight, BMIWeight and BPWeight combine the per-metric sub-scores.
	// They must sum to 1.0.
	AgeWeight float64 `koanf:"age_weight"`
	BMIWeight float64 `koanf:"bmi_weight"`
	BPWeight  float64 `koanf:"bp_weight"`

	// Confidence is the fixed algorithm certainty attached to every
	// assessment, in (0,1].
	Confidence float64 `koanf:"confidence"`

	// Per-metric sub-score thresholds above which a metric is reported
	// as a contributing factor.
	AgeReportThreshold float64 `koanf:"age_report_threshold"`
	BMIReportThreshold float64 `koanf:"bmi_report_threshold"`
	BPReportThreshold  float64 `koanf:"bp_report_threshold"`

	// ModelPath and ModelName locate the future trained-model artifact.
	// The rule-based scorer serves all traffic until one exists.
	ModelPath string `koanf:"model_path"`
	ModelName string `koanf:"model_name"`

	// ModelWatch enables reloading when the artifact changes on disk.
	ModelWatch bool `koanf:"model_watch"`
}

// New creates a Config with defaults matching the documented policy
// constants.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "json",
		Addr:               ":8080",
		APIPrefix:          "/api/v1",
		ServiceName:        defaultServiceName,
		Version:            defaultVersion,
		AgeWeight:          0.30,
		BMIWeight:          0.35,
		BPWeight:           0.35,
		Confidence:         0.85,
		AgeReportThreshold: 0.25,
		BMIReportThreshold: 0.25,
		BPReportThreshold:  0.25,
		ModelPath:          "/models",
		ModelName:          "health_risk_model.bin",
		ModelWatch:         false,
	}
}
