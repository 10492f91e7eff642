package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
)

// validationErrorBody is the 400 payload for malformed descriptors and
// violated structural preconditions.
type validationErrorBody struct {
	Errors []string `json:"errors"`
}

type errorMoreInfo struct {
	Problems  []string `json:"problems"`
	Solutions []string `json:"solutions"`
}

// requestValidationErrorBody is the 400 payload for missing or invalid
// caller-supplied parameters, with structured problem/solution hints.
type requestValidationErrorBody struct {
	Errors      []string       `json:"errors"`
	UserMessage string         `json:"userMessage,omitempty"`
	MoreInfo    *errorMoreInfo `json:"moreInfo,omitempty"`
}

// systemErrorBody is the 500 payload for everything unrecognized.
type systemErrorBody struct {
	Error string `json:"error"`
}

// validationResultBody is the 200 payload of validate calls.
type validationResultBody struct {
	Valid bool                 `json:"valid"`
	Error *validationErrorBody `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors to HTTP responses: validation problems are
// 400s the caller can fix, anything else is a 500 system error.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		logger.Warn("request rejected", "problems", verr.Problems)
		writeJSON(w, http.StatusBadRequest, validationErrorBody{Errors: verr.Problems})
		return
	}

	var rve *domain.RequestValidationError
	if errors.As(err, &rve) {
		logger.Warn("request rejected", "problems", rve.Problems)
		writeJSON(w, http.StatusBadRequest, requestValidationErrorBody{
			Errors:      rve.Problems,
			UserMessage: rve.UserMessage,
			MoreInfo:    &errorMoreInfo{Problems: rve.Problems, Solutions: rve.Solutions},
		})
		return
	}

	logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, systemErrorBody{Error: err.Error()})
}
