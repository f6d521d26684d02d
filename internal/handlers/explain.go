package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/response"
)

type explainHandlers struct {
	ResponseHandler response.ResponseHandler
	ExplainSvc      ExplainService
}

func NewExplainHandlers(deps *Deps) *explainHandlers {
	return &explainHandlers{
		ResponseHandler: deps.ResponseHandler,
		ExplainSvc:      deps.ExplainSvc,
	}
}

func (h *explainHandlers) ExplainRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Explain)
	return r
}

func (h *explainHandlers) Explain(w http.ResponseWriter, r *http.Request) {
	var req dto.ExplainRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("term is required"))
		return
	}

	resp, err := h.ExplainSvc.Explain(r.Context(), req.Term)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
