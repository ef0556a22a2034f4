package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/transducer/pkg/definition"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/aretw0/transducer/pkg/session"
)

// Error kinds reported in ErrorResponse.Kind.
const (
	KindBadRequest        = "bad_request"
	KindInvalidDefinition = "invalid_definition"
	KindNonDeterministic  = "non_deterministic_transition"
	KindBadInput          = "bad_input"
	KindBadTable          = "bad_table"
	KindNotFound          = "not_found"
	KindInternal          = "internal"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var (
		badInput *domain.BadInputError
		aggr     *definition.AggregateError
	)
	switch {
	case errors.Is(err, session.ErrMachineNotFound):
		status, resp.Kind = http.StatusNotFound, KindNotFound
	case errors.As(err, &badInput):
		status, resp.Kind = http.StatusBadRequest, KindBadInput
		resp.State = &badInput.State
		resp.Input = string(badInput.Input)
		if badInput.Position >= 0 {
			resp.Position = &badInput.Position
		}
	case errors.Is(err, domain.ErrBadTable):
		status, resp.Kind = http.StatusBadRequest, KindBadTable
	case errors.Is(err, domain.ErrNonDeterministicTransition):
		status, resp.Kind = http.StatusConflict, KindNonDeterministic
	case errors.As(err, &aggr):
		status, resp.Kind = http.StatusBadRequest, KindInvalidDefinition
	default:
		resp.Kind = KindInternal
		logger.Error("request failed", "err", err)
	}

	writeJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Kind: KindBadRequest})
}
