package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/stefando/m2mTokenClaims/internal/claims"
	"github.com/stefando/m2mTokenClaims/internal/workflow"
)

// ErrorResponse is the body of every failed trigger call
type ErrorResponse struct {
	Error  string                 `json:"error"`
	Code   claims.Outcome         `json:"code"`
	Action workflow.FailureAction `json:"action"`
}

// handleSettings returns the workflow registration
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.enricher.Settings())
}

// handleM2MTokenGenerated runs the enrichment for one trigger event
func (s *Server) handleM2MTokenGenerated(w http.ResponseWriter, r *http.Request) {
	var inv claims.Invocation
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&inv); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request body",
			Code:   claims.OutcomeFailure,
			Action: workflow.FailureActionStop,
		})
		return
	}

	result, err := s.enricher.Handle(r.Context(), inv)
	if err != nil {
		outcome := claims.Classify(err)
		status := http.StatusUnprocessableEntity
		switch outcome {
		case claims.OutcomeFailure:
			status = http.StatusBadGateway
		case claims.OutcomeInvalidRequest:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, ErrorResponse{
			Error:  err.Error(),
			Code:   outcome,
			Action: workflow.FailureActionStop,
		})
		return
	}

	if result.Token == nil {
		result.Token = json.RawMessage(`{}`)
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
