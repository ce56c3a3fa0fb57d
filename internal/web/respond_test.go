package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"parent not found", storage.ErrParentNotFound, http.StatusNotFound},
		{"forbidden", storage.ErrForbidden, http.StatusUnauthorized},
		{"unauthenticated", storage.ErrUnauthenticated, http.StatusForbidden},
		{"validation", storage.ErrValidation, http.StatusUnprocessableEntity},
		{"invalid asset", storage.ErrInvalidAsset, http.StatusUnprocessableEntity},
		{"transaction aborted", storage.ErrTransactionAborted, http.StatusInternalServerError},
		{"store timeout", storage.ErrStoreTimeout, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("loading record: %w", storage.ErrNotFound), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(rec, tt.err, "user facing message")
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "user facing message", body["message"])
		})
	}
}

// Internal error detail must never leak into the response body.
func TestFailHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, errors.New("pq: duplicate key value violates unique constraint"), "Something went wrong.")
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.Contains(t, rec.Body.String(), "Something went wrong.")
}

func TestJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
