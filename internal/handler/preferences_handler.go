package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/service"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type PreferencesHandler struct {
	preferencesService service.PreferencesService
}

func NewPreferencesHandler(preferencesService service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService}
}

func (h *PreferencesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/preferences", h.GetPreferences)
	r.Put("/preferences", h.UpdatePreferences)
}

// GET /v1/preferences
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, http.StatusOK, h.preferencesService.Get(r.Context()))
}

// PUT /v1/preferences
func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var upd models.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	prefs, err := h.preferencesService.Update(r.Context(), &upd)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, prefs)
}
