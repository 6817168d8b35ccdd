package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mockchat/mockchat/controllers"
	"mockchat/mockchat/middlewares"
	"mockchat/mockchat/utils/logging"
	"mockchat/mockchat/utils/types"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// JSONTimeout bounds every non-streaming request.
const JSONTimeout = 30 * time.Second

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, controllers.ErrMissingUserID),
		errors.Is(err, controllers.ErrMissingStreamIDs),
		errors.Is(err, controllers.ErrInvalidRole),
		errors.Is(err, controllers.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, controllers.ErrFileTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, controllers.ErrAuthDisabled):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorLogger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeJSON(w, status, types.ErrorResponse{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid json: " + err.Error()})
		return false
	}
	return true
}

// userIDFor prefers the id from a verified token over the client-sent one.
func userIDFor(r *http.Request, sent string) string {
	if id, ok := middlewares.UserIDFrom(r.Context()); ok {
		return id
	}
	return sent
}
