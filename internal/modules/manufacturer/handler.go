package manufacturer

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/ewpharma/tradelink-backend/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Uploader stores one uploaded file and returns its path.
type Uploader interface {
	Save(folder, field string, file multipart.File, header *multipart.FileHeader) (string, error)
}

// Handler exposes manufacturer HTTP endpoints.
type Handler struct {
	service  Service
	uploader Uploader
	cleaner  Cleaner
}

func NewHandler(service Service, uploader Uploader, cleaner Cleaner) *Handler {
	return &Handler{service: service, uploader: uploader, cleaner: cleaner}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, checkAuth func(http.Handler) http.Handler) {
	r.Get("/api/manufacturers/{pid}", h.getManufacturer)
	r.Get("/api/manufacturers/user/{uid}", h.listByUser)

	r.Group(func(r chi.Router) {
		r.Use(checkAuth)
		r.Post("/api/manufacturers/create", h.createManufacturer)
		r.Patch("/api/manufacturers/{pid}", h.updateManufacturer)
		r.Delete("/api/manufacturers/{pid}", h.deleteManufacturer)
	})
}

func (h *Handler) getManufacturer(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetManufacturer(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		if storage.IsNotFound(err) {
			web.Fail(w, err, "Could not find Manufacturer for the provided id.")
		} else {
			web.Fail(w, err, "Something went wrong, could not find a Manufacturer.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"manufacturer": m})
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	manufacturers, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil && !storage.IsNotFound(err) {
		web.Fail(w, err, "Fetching Manufacturers failed, please try again later.")
		return
	}

	// A missing user or an empty list is not an error, just no data.
	if len(manufacturers) == 0 {
		web.JSON(w, http.StatusOK, map[string]interface{}{
			"manufacturers": []*Manufacturer{},
			"message":       "Could not find manufacturers for the provided admin id",
		})
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"manufacturers": manufacturers,
		"message":       "success",
	})
}

func (h *Handler) createManufacturer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	req := CreateRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
	}
	if err := validate.Struct(req); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		path, err := h.uploader.Save(r.FormValue("folder"), "image", file, header)
		if err != nil {
			web.Fail(w, err, "Invalid mime type!")
			return
		}
		req.ImagePath = path
	}

	m, err := h.service.CreateManufacturer(r.Context(), req)
	if err != nil {
		// The record was never created, so the stored image is an orphan.
		h.cleaner.Release(req.ImagePath)
		if storage.IsNotFound(err) {
			web.Fail(w, err, "Could not find admin for provided id.")
		} else {
			web.Fail(w, err, "Creating Manufacturer failed, please try again.")
		}
		return
	}
	web.JSON(w, http.StatusCreated, map[string]interface{}{"manufacturer": m})
}

func (h *Handler) updateManufacturer(w http.ResponseWriter, r *http.Request) {
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
	m, err := h.service.UpdateManufacturer(r.Context(), chi.URLParam(r, "pid"), req, identity)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrForbidden):
			web.Fail(w, err, "You are not allowed to edit this Manufacturer.")
		case storage.IsNotFound(err):
			web.Fail(w, err, "Could not find Manufacturer for this id.")
		default:
			web.Fail(w, err, "Something went wrong, could not update Manufacturer.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"manufacturer": m})
}

func (h *Handler) deleteManufacturer(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFrom(r.Context())
	err := h.service.DeleteManufacturer(r.Context(), chi.URLParam(r, "pid"), identity)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrForbidden):
			web.Fail(w, err, "You are not allowed to delete this Manufacturer.")
		case storage.IsNotFound(err):
			web.Fail(w, err, "Could not find Manufacturer for this id.")
		default:
			web.Fail(w, err, "Something went wrong, could not delete Manufacturer.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]string{"message": "Deleted Manufacturer."})
}
