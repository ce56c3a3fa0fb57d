package product

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	page    *ListPage
	product *Product
	err     error
}

func (s *stubService) GetProduct(_ context.Context, _ string) (*Product, error) {
	if s.product == nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubService) ListByManufacturerOwner(_ context.Context, _, _, _ string) (*ListPage, error) {
	return s.page, s.err
}

func (s *stubService) ListByTrader(_ context.Context, _ string) ([]*Product, error) {
	return nil, nil
}

func (s *stubService) CreateProduct(_ context.Context, _ CreateRequest, _ *auth.Identity) (*Product, error) {
	return nil, s.err
}

func (s *stubService) UpdateProduct(_ context.Context, _ string, _ UpdateRequest, _ *auth.Identity) (*Product, error) {
	return nil, s.err
}

func (s *stubService) DeleteProduct(_ context.Context, _ string, _ *auth.Identity) error {
	return s.err
}

func (s *stubService) FindByAssetPath(_ context.Context, _, _ string) (*Product, error) {
	return nil, s.err
}

type stubUploader struct{ saved []string }

func (s *stubUploader) Save(folder, field string, _ multipart.File, _ *multipart.FileHeader) (string, error) {
	path := "uploads/documents/" + folder + "/" + field + "/" + field + ".png"
	s.saved = append(s.saved, path)
	return path, nil
}

func noAuth(next http.Handler) http.Handler { return next }

func listResponse(t *testing.T, svc Service, url string) (int, map[string]interface{}) {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(svc, nil, &fakeCleaner{}).RegisterRoutes(router, noAuth)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestListByManufacturerResponseShape(t *testing.T) {
	p := &Product{ID: uuid.New(), Title: "Paracetamol"}
	svc := &stubService{page: &ListPage{
		Products: []PagedProduct{{Product: p, SerialNo: 1}},
		Total:    1,
		Size:     10,
	}}

	code, body := listResponse(t, svc, "/api/products/manufacturer/id?uid="+uuid.New().String())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["message"])
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 10, body["size"])

	products, ok := body["products"].([]interface{})
	require.True(t, ok)
	require.Len(t, products, 1)
	first := products[0].(map[string]interface{})
	assert.Equal(t, "Paracetamol", first["title"])
	assert.EqualValues(t, 1, first["serialNo"])
}

// An empty collection answers 200 with the fixed message, never an error.
func TestListByManufacturerEmptyCollection(t *testing.T) {
	svc := &stubService{page: &ListPage{Products: []PagedProduct{}, Size: 10}}

	code, body := listResponse(t, svc, "/api/products/manufacturer/id?uid="+uuid.New().String())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Could not find products for the provided manufacturer id", body["message"])
	assert.Empty(t, body["products"])
	assert.NotContains(t, body, "total")
}

// Files stored for a create request that then fails must be released, or
// every rejected create leaves orphans on disk.
func TestCreateProductReleasesUploadsWhenCreateFails(t *testing.T) {
	svc := &stubService{err: storage.ErrParentNotFound}
	uploader := &stubUploader{}
	cleaner := &fakeCleaner{}

	router := chi.NewRouter()
	NewHandler(svc, uploader, cleaner).RegisterRoutes(router, noAuth)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Paracetamol"))
	require.NoError(t, writer.WriteField("description", "analgesic API"))
	part, err := writer.CreateFormFile("image", "upload.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/create", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, uploader.saved, 1)
	assert.Equal(t, uploader.saved, cleaner.released)
}
