// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/healthwatch/riskd/internal/adapters/mlmodel"
	"github.com/healthwatch/riskd/internal/domain/model"
	"github.com/healthwatch/riskd/internal/domain/scoring"
	"github.com/healthwatch/riskd/pkg/logger"
	"github.com/healthwatch/riskd/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Service implements the API dependencies for the inference system. It owns
// the scorer, the model artifact store, and per-level assessment counters.
type Service struct {
	mu sync.RWMutex

	// Core components
	scorer     scoring.Scorer
	modelStore *mlmodel.Store

	// Scoring configuration handed to the rule-based scorer when no
	// custom scorer is injected.
	ageWeight  float64
	bmiWeight  float64
	bpWeight   float64
	confidence float64
	ageReport  float64
	bmiReport  float64
	bpReport   float64

	// Model artifact configuration
	modelDir   string
	modelName  string
	modelWatch bool

	// State
	started   bool
	startedAt time.Time
	stopWatch context.CancelFunc

	// Counters
	assessedTotal atomic.Int64
	lowTotal      atomic.Int64
	mediumTotal   atomic.Int64
	highTotal     atomic.Int64
	criticalTotal atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithScorer injects a scorer implementation, e.g. a future trained model.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithWeights sets the per-metric combination weights.
func WithWeights(age, bmi, bp float64) Option {
	return func(s *Service) {
		if age > 0 && bmi > 0 && bp > 0 {
			s.ageWeight = age
			s.bmiWeight = bmi
			s.bpWeight = bp
		}
	}
}

// WithConfidence sets the fixed assessment confidence.
func WithConfidence(c float64) Option {
	return func(s *Service) {
		if c > 0 && c <= 1 {
			s.confidence = c
		}
	}
}

// WithReportingThresholds sets the per-metric contributing-factor thresholds.
func WithReportingThresholds(age, bmi, bp float64) Option {
	return func(s *Service) {
		s.ageReport = age
		s.bmiReport = bmi
		s.bpReport = bp
	}
}

// WithModelArtifact sets the location of the trained-model artifact.
func WithModelArtifact(dir, name string) Option {
	return func(s *Service) {
		if dir != "" {
			s.modelDir = dir
		}
		if name != "" {
			s.modelName = name
		}
	}
}

// WithModelWatch enables reloading when the artifact changes on disk.
func WithModelWatch(watch bool) Option {
	return func(s *Service) {
		s.modelWatch = watch
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		ageWeight:  0.30,
		bmiWeight:  0.35,
		bpWeight:   0.35,
		confidence: 0.85,
		ageReport:  0.25,
		bmiReport:  0.25,
		bpReport:   0.25,
		modelDir:   "/models",
		modelName:  "health_risk_model.bin",
		logger:     nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting inference service...")

	if s.scorer == nil {
		s.scorer = scoring.NewRuleBasedScorer(
			scoring.WithWeights(s.ageWeight, s.bmiWeight, s.bpWeight),
			scoring.WithConfidence(s.confidence),
			scoring.WithReportingThresholds(s.ageReport, s.bmiReport, s.bpReport),
		)
		s.logger.Info(ctx, "using rule-based scorer",
			logger.Float64("age_weight", s.ageWeight),
			logger.Float64("bmi_weight", s.bmiWeight),
			logger.Float64("bp_weight", s.bpWeight))
	}

	s.modelStore = mlmodel.New(s.modelDir, s.modelName, mlmodel.WithLogger(s.logger))
	if err := s.modelStore.Load(ctx); err != nil {
		return err
	}

	if s.modelWatch {
		watchCtx, cancel := context.WithCancel(context.Background())
		s.stopWatch = cancel
		go func() {
			if err := s.modelStore.Watch(watchCtx); err != nil {
				s.logger.Error(watchCtx, "model watcher stopped", logger.Error(err))
			}
		}()
	}

	s.started = true
	s.startedAt = time.Now()

	s.logger.Info(ctx, "inference service started")
	return nil
}

// Stop releases service resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	s.started = false
}

// Assess scores one set of validated metrics and records the outcome.
func (s *Service) Assess(ctx context.Context, m model.HealthMetrics) (model.RiskAssessment, error) {
	s.mu.RLock()
	scorer := s.scorer
	s.mu.RUnlock()

	if scorer == nil {
		return model.RiskAssessment{}, ErrNotStarted
	}

	start := time.Now()
	assessment, err := scorer.Assess(ctx, m)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationFailure(verr.Field)
		} else {
			metrics.RecordScoringError()
			s.logger.Error(ctx, "scoring computation failed", logger.Error(err))
		}
		return model.RiskAssessment{}, err
	}

	latencyMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	metrics.RecordScoringLatency(latencyMs)
	metrics.RecordPrediction(assessment.RiskLevel.String())
	s.countLevel(assessment.RiskLevel)

	s.logger.Debug(ctx, "risk assessed",
		logger.Int("age", m.Age),
		logger.Float64("bmi", m.BMI),
		logger.Int("systolic_bp", m.SystolicBP),
		logger.Float64("risk_score", assessment.RiskScore),
		logger.String("risk_level", assessment.RiskLevel.String()))

	return assessment, nil
}

// Ready reports whether the service can handle requests.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// ModelLoaded reports whether a trained-model artifact is present. The
// rule-based scorer serves traffic either way.
func (s *Service) ModelLoaded() bool {
	s.mu.RLock()
	store := s.modelStore
	s.mu.RUnlock()
	return store != nil && store.Loaded()
}

// GetStats returns current service statistics.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	startedAt := s.startedAt
	store := s.modelStore
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":             started,
		"assessmentsTotal":    int(s.assessedTotal.Load()),
		"assessmentsLow":      int(s.lowTotal.Load()),
		"assessmentsMedium":   int(s.mediumTotal.Load()),
		"assessmentsHigh":     int(s.highTotal.Load()),
		"assessmentsCritical": int(s.criticalTotal.Load()),
		"modelLoaded":         store != nil && store.Loaded(),
	}
	if started {
		stats["uptimeSeconds"] = int(time.Since(startedAt).Seconds())
	}
	if store != nil {
		if info, ok := store.Info(); ok {
			stats["modelPath"] = info.Path
			stats["modelSizeBytes"] = int(info.Size)
		}
	}
	return stats
}

func (s *Service) countLevel(level model.RiskLevel) {
	s.assessedTotal.Add(1)
	switch level {
	case model.RiskLevelLow:
		s.lowTotal.Add(1)
	case model.RiskLevelMedium:
		s.mediumTotal.Add(1)
	case model.RiskLevelHigh:
		s.highTotal.Add(1)
	case model.RiskLevelCritical:
		s.criticalTotal.Add(1)
	}
}
