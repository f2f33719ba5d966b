package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/service"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	sessionService service.SessionService
}

func NewAuthHandler(sessionService service.SessionService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.SignUp)
	r.Post("/auth/login", h.Login)
}

func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
}

// POST /v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.sessionService.SignUp(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, user.ToResponse())
}

// POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.sessionService.Login(r.Context(), &creds)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User.ToResponse(),
	})
}

// POST /v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Logout(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	utils.NoContent(w)
}

// GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionService.CurrentUser(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("login required"))
		return
	}
	utils.Success(w, http.StatusOK, user.ToResponse())
}
