// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/healthwatch/riskd/internal/domain/model"
	"github.com/healthwatch/riskd/pkg/metrics"
)

// PredictHandler handles risk prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests. Input is validated before
// the scorer runs: missing, mistyped, or out-of-range metrics come back as
// 422 without invoking the scoring core.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			metrics.RecordValidationFailure(typeErr.Field)
			writeError(w, http.StatusUnprocessableEntity, "validation_error",
				WrapKind(op, ErrValidation, errors.New("field "+typeErr.Field+" has the wrong type")))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	m, err := req.metrics()
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationFailure(verr.Field)
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", WrapKind(op, ErrValidation, err))
		return
	}

	assessment, err := h.deps.Assess(r.Context(), m)
	if err != nil {
		// Validation failed inside the scorer only if the handler-level
		// checks were bypassed; treat it as a client error all the same.
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", WrapKind(op, ErrValidation, err))
			return
		}
		// Anything else is a computation defect: fail loudly, never return
		// a clamped score as if it were valid.
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, newPredictionResponse(assessment))
}
