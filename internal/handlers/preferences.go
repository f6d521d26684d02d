package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/decision-backend/internal/middleware"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/internal/response"
)

type preferencesHandlers struct {
	ResponseHandler response.ResponseHandler
	PreferencesSvc  PreferencesService
}

func NewPreferencesHandlers(deps *Deps) *preferencesHandlers {
	return &preferencesHandlers{
		ResponseHandler: deps.ResponseHandler,
		PreferencesSvc:  deps.PreferencesSvc,
	}
}

func (h *preferencesHandlers) PreferencesRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/", h.Update)
	return r
}

func (h *preferencesHandlers) Get(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	prefs, err := h.PreferencesSvc.Get(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, prefs)
}

func (h *preferencesHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var prefs models.UserPreferences
	if err := decodeJSON(r, &prefs); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	saved, err := h.PreferencesSvc.Update(r.Context(), uid, prefs)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, saved)
}
