package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alternativa-centar/site/internal/images"
	"github.com/alternativa-centar/site/internal/logging"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/internal/store"
	"github.com/alternativa-centar/site/types"
	"github.com/sirupsen/logrus"
)

// Request bodies carry base64 images of up to 2MB.
const maxBodyBytes = 8 << 20

type contextKey string

const contextSessionKey contextKey = "session"

// SessionFromContext returns the session stored by RouteGuard.
func SessionFromContext(ctx context.Context) (types.SessionUser, bool) {
	session, ok := ctx.Value(contextSessionKey).(types.SessionUser)
	return session, ok
}

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges writes that return no entity.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// writeServiceError maps service and store errors onto the JSON error
// envelope. Unexpected errors are logged and hidden behind failure.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error, notFound, failure string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, images.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, err.Error())
	case notFound != "" && errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	default:
		logging.FromContext(r.Context(), log).WithError(err).Error(failure)
		writeError(w, http.StatusInternalServerError, failure)
	}
}

func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("invalid limit")
	}
	return limit, nil
}
