package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/decision-backend/internal/middleware"
	"github.com/GregMSThompson/decision-backend/internal/response"
)

type historyHandlers struct {
	ResponseHandler response.ResponseHandler
	HistorySvc      HistoryService
}

func NewHistoryHandlers(deps *Deps) *historyHandlers {
	return &historyHandlers{
		ResponseHandler: deps.ResponseHandler,
		HistorySvc:      deps.HistorySvc,
	}
}

func (h *historyHandlers) HistoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Delete("/", h.Clear)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *historyHandlers) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	items, err := h.HistorySvc.List(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *historyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	item, err := h.HistorySvc.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, item)
}

func (h *historyHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.HistorySvc.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusNoContent, nil)
}

func (h *historyHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.HistorySvc.Clear(r.Context(), uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusNoContent, nil)
}
