package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const weightSumTolerance = 1e-9

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RISKD_CONFIG is set
//  3. env (prefix RISKD_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("RISKD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RISKD_ADDR, RISKD_AGE_WEIGHT, ...
	// Map env keys like RISKD_AGE_WEIGHT -> age_weight (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RISKD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "riskd_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the scorer cannot honor.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	sum := c.AgeWeight + c.BMIWeight + c.BPWeight
	if c.AgeWeight <= 0 || c.BMIWeight <= 0 || c.BPWeight <= 0 || math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: metric weights must be positive and sum to 1.0, got %v", ErrInvalidConfig, sum)
	}
	if c.Confidence <= 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be in (0,1], got %v", ErrInvalidConfig, c.Confidence)
	}
	for name, t := range map[string]float64{
		"age_report_threshold": c.AgeReportThreshold,
		"bmi_report_threshold": c.BMIReportThreshold,
		"bp_report_threshold":  c.BPReportThreshold,
	} {
		if t < 0 || t > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, name, t)
		}
	}
	return nil
}
