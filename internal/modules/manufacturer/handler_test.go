package manufacturer

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct{ err error }

func (s *stubService) GetManufacturer(context.Context, string) (*Manufacturer, error) {
	return nil, s.err
}

func (s *stubService) ListByUser(context.Context, string) ([]*Manufacturer, error) {
	return nil, nil
}

func (s *stubService) CreateManufacturer(context.Context, CreateRequest) (*Manufacturer, error) {
	return nil, s.err
}

func (s *stubService) UpdateManufacturer(context.Context, string, UpdateRequest, *auth.Identity) (*Manufacturer, error) {
	return nil, s.err
}

func (s *stubService) DeleteManufacturer(context.Context, string, *auth.Identity) error {
	return s.err
}

type stubUploader struct{ saved []string }

func (s *stubUploader) Save(_, field string, _ multipart.File, _ *multipart.FileHeader) (string, error) {
	path := "uploads/documents/acme/" + field + "/" + field + ".png"
	s.saved = append(s.saved, path)
	return path, nil
}

func noAuth(next http.Handler) http.Handler { return next }

// A stored image whose create request then fails must be released, or
// every rejected create leaves an orphan on disk.
func TestCreateManufacturerReleasesUploadWhenCreateFails(t *testing.T) {
	uploader := &stubUploader{}
	cleaner := &fakeCleaner{}

	router := chi.NewRouter()
	NewHandler(&stubService{err: storage.ErrTransactionAborted}, uploader, cleaner).RegisterRoutes(router, noAuth)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Acme Pharma"))
	require.NoError(t, writer.WriteField("description", "API manufacturer"))
	require.NoError(t, writer.WriteField("address", "12 Industrial Way"))
	part, err := writer.CreateFormFile("image", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/manufacturers/create", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, uploader.saved, 1)
	assert.Equal(t, uploader.saved, cleaner.released)
}
