package trader

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

// Handler exposes trader HTTP endpoints.
type Handler struct {
	service  Service
	uploader Uploader
	cleaner  Cleaner
}

func NewHandler(service Service, uploader Uploader, cleaner Cleaner) *Handler {
	return &Handler{service: service, uploader: uploader, cleaner: cleaner}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, checkAuth func(http.Handler) http.Handler) {
	r.Get("/api/traders/{pid}", h.getTrader)
	r.Get("/api/traders/user/{uid}", h.listByManufacturer)

	r.Group(func(r chi.Router) {
		r.Use(checkAuth)
		r.Post("/api/traders/create", h.createTrader)
		r.Patch("/api/traders/{pid}", h.updateTrader)
		r.Delete("/api/traders/{pid}", h.deleteTrader)
	})
}

func (h *Handler) getTrader(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTrader(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		if storage.IsNotFound(err) {
			web.Fail(w, err, "Could not find Trader for the provided id.")
		} else {
			web.Fail(w, err, "Something went wrong, could not find a Trader.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"trader": t})
}

func (h *Handler) listByManufacturer(w http.ResponseWriter, r *http.Request) {
	traders, err := h.service.ListByManufacturer(r.Context(), chi.URLParam(r, "uid"))
	if err != nil && !storage.IsNotFound(err) {
		web.Fail(w, err, "Fetching Traders failed, please try again later.")
		return
	}

	if len(traders) == 0 {
		web.JSON(w, http.StatusOK, map[string]interface{}{
			"traders": []*Trader{},
			"message": "Could not find traders for the provided manufacturer id",
		})
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"traders": traders,
		"message": "success",
	})
}

func (h *Handler) createTrader(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	req := CreateRequest{
		Title:   r.FormValue("title"),
		Email:   r.FormValue("email"),
		Address: r.FormValue("address"),
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

	identity, _ := auth.IdentityFrom(r.Context())
	t, err := h.service.CreateTrader(r.Context(), req, identity)
	if err != nil {
		// The record was never created, so the stored image is an orphan.
		h.cleaner.Release(req.ImagePath)
		if storage.IsNotFound(err) {
			web.Fail(w, err, "Could not find manufacturer for provided id.")
		} else {
			web.Fail(w, err, "Creating Trader failed, please try again.")
		}
		return
	}
	web.JSON(w, http.StatusCreated, map[string]interface{}{"trader": t})
}

func (h *Handler) updateTrader(w http.ResponseWriter, r *http.Request) {
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
	t, err := h.service.UpdateTrader(r.Context(), chi.URLParam(r, "pid"), req, identity)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrForbidden):
			web.Fail(w, err, "You are not allowed to edit this Trader.")
		case storage.IsNotFound(err):
			web.Fail(w, err, "Could not find Trader for this id.")
		default:
			web.Fail(w, err, "Something went wrong, could not update Trader.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"trader": t})
}

func (h *Handler) deleteTrader(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFrom(r.Context())
	err := h.service.DeleteTrader(r.Context(), chi.URLParam(r, "pid"), identity)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrForbidden):
			web.Fail(w, err, "You are not allowed to delete this Trader.")
		case storage.IsNotFound(err):
			web.Fail(w, err, "Could not find Trader for this id.")
		default:
			web.Fail(w, err, "Something went wrong, could not delete Trader.")
		}
		return
	}
	web.JSON(w, http.StatusOK, map[string]string{"message": "Deleted Trader."})
}
