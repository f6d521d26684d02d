package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/middleware"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/internal/response"
)

type decisionHandlers struct {
	ResponseHandler response.ResponseHandler
	DecisionSvc     DecisionService
	MediaSvc        MediaService
	stepInterval    time.Duration
}

func NewDecisionHandlers(deps *Deps) *decisionHandlers {
	return &decisionHandlers{
		ResponseHandler: deps.ResponseHandler,
		DecisionSvc:     deps.DecisionSvc,
		MediaSvc:        deps.MediaSvc,
		stepInterval:    models.StepInterval,
	}
}

func (h *decisionHandlers) DecisionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/evaluate", h.Evaluate)
	r.Get("/stream", h.Stream)
	r.Get("/steps", h.Steps)
	r.Post("/{id}/video", h.Video)
	return r
}

func (h *decisionHandlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	var input models.DecisionInput
	if err := decodeJSON(r, &input); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	item, err := h.DecisionSvc.Evaluate(r.Context(), uid, input)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, item)
}

func (h *decisionHandlers) Steps(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DecisionSvc.Steps())
}

func (h *decisionHandlers) Video(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := middleware.UID(r.Context())

	url, err := h.MediaSvc.Video(r.Context(), uid, id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.VideoResponse{ID: id, VideoOutcomeURL: url})
}
