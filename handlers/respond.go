package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"Reelgo/services"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

var validate = validator.New()

type errorDetail struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Kind: kind, Message: message}})
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{
		Kind:    "validation",
		Message: "invalid request body",
		Fields:  fields,
	}})
}

// writeServiceError maps service-layer sentinels onto the error envelope.
// Anything unmapped is logged and reported as a bare internal error so no
// internal detail leaks to the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	var fe *services.FetchError
	switch {
	case errors.Is(err, services.ErrInvalid):
		writeError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "you do not own this resource")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &fe):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", fe.Error())
	default:
		slog.Error("Unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decodeBody decodes and validates a JSON request body. It writes the error
// response itself and reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "malformed JSON body")
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = "failed " + fe.Tag() + " validation"
			}
			writeValidationError(w, fields)
			return false
		}
		writeError(w, http.StatusBadRequest, "validation", "invalid request body")
		return false
	}

	return true
}
