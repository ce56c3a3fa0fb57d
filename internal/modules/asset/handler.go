package asset

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/ewpharma/tradelink-backend/internal/modules/product"
	"github.com/ewpharma/tradelink-backend/internal/web"
	"github.com/go-chi/chi/v5"
)

// Lookup resolves a stored asset path back to the product referencing it.
type Lookup interface {
	FindByAssetPath(ctx context.Context, field, path string) (*product.Product, error)
}

// Handler serves document downloads. The requested path must be referenced
// by a product record; arbitrary disk paths are never served.
type Handler struct {
	lookup Lookup
}

func NewHandler(lookup Lookup) *Handler { return &Handler{lookup: lookup} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/download", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	// The field name doubles as the filename, so the last path segment
	// identifies which asset column to match against.
	field := strings.SplitN(path.Base(file), ".", 2)[0]

	if _, err := h.lookup.FindByAssetPath(r.Context(), field, file); err != nil {
		web.Fail(w, err, "Could not find the file on server.")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+path.Base(file))
	http.ServeFile(w, r, file)
}
