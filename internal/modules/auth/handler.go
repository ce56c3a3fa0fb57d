package auth

import (
	"encoding/json"
	"net/http"

	"github.com/ewpharma/tradelink-backend/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the login endpoint.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/users/login", h.login)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid inputs passed, please check your data."})
		return
	}

	token, identity, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		web.Fail(w, err, "Invalid credentials, could not log you in.")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"userId": identity.UserID,
		"email":  identity.Email,
		"role":   identity.Role,
		"token":  token,
	})
}
