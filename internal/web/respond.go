package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ewpharma/tradelink-backend/internal/storage"
)

// JSON writes v as the response body with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Fail maps err to a status code and writes the fixed user-facing message.
// Internal error detail is logged, never sent to the client. The mapping
// mirrors the upstream API: ownership failures answer 401 and credential
// failures 403.
func Fail(w http.ResponseWriter, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case storage.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrForbidden):
		status = http.StatusUnauthorized
	case errors.Is(err, storage.ErrUnauthenticated):
		status = http.StatusForbidden
	case errors.Is(err, storage.ErrValidation), errors.Is(err, storage.ErrInvalidAsset):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	JSON(w, status, map[string]string{"message": message})
}
