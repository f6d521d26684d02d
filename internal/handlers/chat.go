package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/middleware"
	"github.com/GregMSThompson/decision-backend/internal/response"
)

type chatHandlers struct {
	ResponseHandler response.ResponseHandler
	ChatSvc         ChatService
}

func NewChatHandlers(deps *Deps) *chatHandlers {
	return &chatHandlers{
		ResponseHandler: deps.ResponseHandler,
		ChatSvc:         deps.ChatSvc,
	}
}

func (h *chatHandlers) ChatRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Chat)
	r.Get("/{sessionId}", h.Messages)
	return r
}

func (h *chatHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("message is required"))
		return
	}

	uid := middleware.UID(r.Context())
	resp, err := h.ChatSvc.Chat(r.Context(), uid, req.SessionID, req.Message)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *chatHandlers) Messages(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sessionId")
	uid := middleware.UID(r.Context())

	msgs, err := h.ChatSvc.Messages(r.Context(), uid, sid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, msgs)
}
