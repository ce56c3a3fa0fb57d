package user

import (
	"encoding/json"
	"net/http"

	"github.com/ewpharma/tradelink-backend/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Handler exposes user HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/users", h.listUsers)
	r.Get("/api/users/{uid}", h.getUser)
	r.Post("/api/users/signup", h.signup)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		web.Fail(w, err, "Fetching users failed, please try again later.")
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		web.Fail(w, err, "Could not find user for the provided id.")
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}
	if err := validate.Struct(req); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	u, err := h.service.Signup(r.Context(), req)
	if err != nil {
		web.Fail(w, err, "Signing up failed, please try again later.")
		return
	}
	web.JSON(w, http.StatusCreated, map[string]interface{}{"user": u})
}
