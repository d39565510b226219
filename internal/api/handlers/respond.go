package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/api/dto"
	"github.com/hugh/go-roster/internal/apperr"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a classified failure. Storage faults are logged with
// their cause and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.Persistence {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		code := "PERSISTENCE_FAILURE"
		if ok {
			code = e.Code
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Internal server error", code))
		return
	}

	writeJSON(w, statusFor(e.Kind), dto.ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
		Details: e.Details,
	})
}

// decodeJSON decodes the body into v. An empty body is allowed when
// optional is true.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body", "INVALID_BODY"))
	return false
}

func validate(w http.ResponseWriter, fields map[string]string) bool {
	if len(fields) == 0 {
		return true
	}
	writeJSON(w, http.StatusBadRequest, dto.ValidationError(fields))
	return false
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid ID", "INVALID_ID"))
		return uuid.Nil, false
	}
	return id, true
}

// boolQuery reads an optional boolean query parameter.
func boolQuery(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
