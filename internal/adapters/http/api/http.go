// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/healthwatch/riskd/internal/domain/model"
	"github.com/healthwatch/riskd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Assess scores one set of validated patient metrics.
	Assess(ctx context.Context, m model.HealthMetrics) (model.RiskAssessment, error)

	// Ready reports whether the service can handle requests.
	Ready() bool

	// ModelLoaded reports whether a trained-model artifact is present.
	ModelLoaded() bool
}

// Identity describes the service on the root and probe endpoints.
type Identity struct {
	Service string
	Version string
	Prefix  string
}

// Server wires HTTP routes for the business API.
type Server struct {
	predictHandler *PredictHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	rootHandler    *RootHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, ident Identity) *Server {
	return &Server{
		predictHandler: NewPredictHandler(deps),
		healthHandler:  NewHealthHandler(deps, ident),
		statsHandler:   NewStatsHandler(statsProvider),
		rootHandler:    NewRootHandler(ident),
	}
}

// Register attaches all HTTP routes to mux. Business routes live under the
// configured prefix; probes, stats, and metrics sit alongside.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	prefix := strings.TrimSuffix(s.rootHandler.ident.Prefix, "/")

	mux.HandleFunc(prefix+"/predict", RequestIDMiddleware(MetricsMiddleware(s.predictHandler.HandlePredict, "predict")))
	mux.HandleFunc(prefix+"/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc(prefix+"/ready", MetricsMiddleware(s.healthHandler.HandleReady, "ready"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.rootHandler.HandleRoot)
}

// predictionRequest mirrors the OpenAPI schema for POST /predict. Pointer
// fields distinguish missing keys from zero values.
type predictionRequest struct {
	Age        *int     `json:"age"`
	BMI        *float64 `json:"bmi"`
	SystolicBP *int     `json:"blood_pressure_systolic"`
}

// metrics builds validated domain metrics from the request body.
func (p predictionRequest) metrics() (model.HealthMetrics, error) {
	switch {
	case p.Age == nil:
		return model.HealthMetrics{}, &model.ValidationError{Field: "age", Value: nil, Reason: "field is required"}
	case p.BMI == nil:
		return model.HealthMetrics{}, &model.ValidationError{Field: "bmi", Value: nil, Reason: "field is required"}
	case p.SystolicBP == nil:
		return model.HealthMetrics{}, &model.ValidationError{Field: "blood_pressure_systolic", Value: nil, Reason: "field is required"}
	}
	return model.NewHealthMetrics(*p.Age, *p.BMI, *p.SystolicBP)
}

// predictionResponse mirrors the OpenAPI schema for the assessment result.
type predictionResponse struct {
	RiskScore           float64  `json:"risk_score"`
	RiskLevel           string   `json:"risk_level"`
	Confidence          float64  `json:"confidence"`
	ContributingFactors []string `json:"contributing_factors"`
	Timestamp           string   `json:"timestamp"`
}

// newPredictionResponse converts a domain assessment to its wire shape.
func newPredictionResponse(a model.RiskAssessment) predictionResponse {
	return predictionResponse{
		RiskScore:           a.RiskScore,
		RiskLevel:           a.RiskLevel.String(),
		Confidence:          a.Confidence,
		ContributingFactors: a.ContributingFactors,
		Timestamp:           a.Timestamp.UTC().Format(time.RFC3339),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
