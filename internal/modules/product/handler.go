package product

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/ewpharma/tradelink-backend/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// assetFields are the multipart file fields accepted on product creation.
var assetFields = []string{"image", "coa", "msds", "cep", "qos"}

// Uploader stores one uploaded file and returns its path.
type Uploader interface {
	Save(folder, field string, file multipart.File, header *multipart.FileHeader) (string, error)
}

// Handler exposes product HTTP endpoints.
type Handler struct {
	service  Service
	uploader Uploader
	cleaner  Cleaner
}

func NewHandler(service Service, uploader Uploader, cleaner Cleaner) *Handler {
	return &Handler{service: service, uploader: uploader, cleaner: cleaner}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, checkAuth func(http.Handler) http.Handler) {
	r.Get("/api/products/{pid}", h.getProduct)
	r.Get("/api/products/manufacturer/id", h.listByManufacturer)
	r.Get("/api/products/trader/{uid}", h.listByTrader)

	r.Group(func(r chi.Router) {
		r.Use(checkAuth)
		r.Post("/api/products/create", h.createProduct)
		r.Patch("/api/products/{pid}", h.updateProduct)
		r.Delete("/api/products/{pid}", h.deleteProduct)
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		if storage.IsNotFound(err) {
			web.Fail(w, err, "Could not find Product for the provided id.")
		} else {
			web.Fail(w, err, "Something went wrong, could not find a Product.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"product": p})
}

// listByManufacturer answers GET /api/products/manufacturer/id?uid=&page=&size=.
// uid is the user account owning the manufacturer. An unknown owner or an
// empty collection is a success with no items.
func (h *Handler) listByManufacturer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.ListByManufacturerOwner(r.Context(), q.Get("uid"), q.Get("page"), q.Get("size"))
	if err != nil {
		web.Fail(w, err, "Fetching Products failed, please try again later.")
		return
	}

	if len(page.Products) == 0 {
		web.JSON(w, http.StatusOK, map[string]interface{}{
			"products": []PagedProduct{},
			"message":  "Could not find products for the provided manufacturer id",
		})
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"products": page.Products,
		"size":     page.Size,
		"total":    page.Total,
		"message":  "success",
	})
}

func (h *Handler) listByTrader(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListByTrader(r.Context(), chi.URLParam(r, "uid"))
	if err != nil && !storage.IsNotFound(err) {
		web.Fail(w, err, "Fetching Products failed, please try again later.")
		return
	}

	if len(products) == 0 {
		web.JSON(w, http.StatusOK, map[string]interface{}{
			"products": []*Product{},
			"message":  "Could not find products for the provided trader id",
		})
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"message":  "success",
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	req := CreateRequest{
		Folder:         r.FormValue("folder"),
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		Price:          r.FormValue("price"),
		DMF:            r.FormValue("dmf"),
		Impurities:     r.FormValue("impurities"),
		RefStandards:   r.FormValue("refStandards"),
		Pharmacopoeias: r.FormValue("pharmacopoeias"),
		TraderIDs:      parseTraderIDs(r.FormValue("traders")),
	}
	if err := validate.Struct(req); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	// Files already written for a request that then fails are orphans;
	// release them before answering.
	saved := make([]string, 0, len(assetFields))
	release := func() {
		for _, path := range saved {
			h.cleaner.Release(path)
		}
	}

	for _, field := range assetFields {
		file, header, err := r.FormFile(field)
		if err != nil {
			continue
		}
		path, err := h.uploader.Save(req.Folder, field, file, header)
		file.Close()
		if err != nil {
			release()
			web.Fail(w, err, "Invalid mime type!")
			return
		}
		saved = append(saved, path)
		switch field {
		case "image":
			req.ImagePath = path
		case "coa":
			req.COAPath = path
		case "msds":
			req.MSDSPath = path
		case "cep":
			req.CEPPath = path
		case "qos":
			req.QOSPath = path
		}
	}

	identity, _ := auth.IdentityFrom(r.Context())
	p, err := h.service.CreateProduct(r.Context(), req, identity)
	if err != nil {
		release()
		if storage.IsNotFound(err) {
			web.Fail(w, err, "Could not find manufacturer for provided id.")
		} else {
			web.Fail(w, err, "Creating Product failed, please try again.")
		}
		return
	}
	web.JSON(w, http.StatusCreated, map[string]interface{}{"product": p})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}
	if err := validate.Struct(req); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	identity, _ := auth.IdentityFrom(r.Context())
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "pid"), req, identity)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrForbidden):
			web.Fail(w, err, "You are not allowed to edit this Product.")
		case errors.Is(err, storage.ErrValidation):
			web.Fail(w, err, "Invalid inputs passed, please check your data.")
		case storage.IsNotFound(err):
			web.Fail(w, err, "Could not find Product for this id.")
		default:
			web.Fail(w, err, "Something went wrong, could not update Product.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"product": p})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFrom(r.Context())
	err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "pid"), identity)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrForbidden):
			web.Fail(w, err, "You are not allowed to delete this Product.")
		case storage.IsNotFound(err):
			web.Fail(w, err, "Could not find Product for this id.")
		default:
			web.Fail(w, err, "Something went wrong, could not delete Product.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]string{"message": "Deleted Product."})
}

// parseTraderIDs accepts either a JSON array or a comma-separated list of
// trader ids; unparseable entries are dropped.
func parseTraderIDs(raw string) []uuid.UUID {
	if raw == "" {
		return nil
	}
	var parts []string
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		parts = strings.Split(raw, ",")
	}
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
