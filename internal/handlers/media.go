package handlers

import (
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/middleware"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/internal/response"
)

const multipartMemory = 32 << 20

type mediaHandlers struct {
	ResponseHandler response.ResponseHandler
	MediaSvc        MediaService
	maxUploadSize   int64
}

func NewMediaHandlers(deps *Deps) *mediaHandlers {
	return &mediaHandlers{
		ResponseHandler: deps.ResponseHandler,
		MediaSvc:        deps.MediaSvc,
		maxUploadSize:   deps.MaxUploadSize,
	}
}

func (h *mediaHandlers) MediaRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/visual", h.Visual)
	r.Post("/speech", h.Speech)
	r.Post("/transcribe", h.Transcribe)
	return r
}

func (h *mediaHandlers) Visual(w http.ResponseWriter, r *http.Request) {
	var req dto.VisualRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("prompt is required"))
		return
	}

	uid := middleware.UID(r.Context())
	url, err := h.MediaSvc.Visual(r.Context(), uid, req.Prompt, req.AspectRatio)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.VisualResponse{URL: url})
}

func (h *mediaHandlers) Speech(w http.ResponseWriter, r *http.Request) {
	var req dto.SpeechRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("text is required"))
		return
	}
	if req.Language == "" {
		req.Language = models.LanguageEnglish
	}

	audio, err := h.MediaSvc.Speech(r.Context(), req.Text, req.Language)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteBytes(w, r, "audio/wav", audio)
}

// Transcribe accepts either a multipart upload in the "audio" field or a
// JSON body carrying base64 audio.
func (h *mediaHandlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	audio, mimeType, err := h.readAudio(w, r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	text, err := h.MediaSvc.Transcribe(r.Context(), audio, mimeType)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.TranscribeResponse{Text: text})
}

func (h *mediaHandlers) readAudio(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req dto.TranscribeRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, "", err
		}
		if req.Data == "" || req.MIMEType == "" {
			return nil, "", errs.NewValidationError("data and mimeType are required")
		}
		audio, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, "", errs.NewValidationError("data must be base64 encoded")
		}
		return audio, req.MIMEType, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, "", errs.NewValidationError("invalid multipart form")
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, "", errs.NewValidationError("audio file is required")
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, "", errs.NewValidationError("failed to read audio file")
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "audio/webm"
	}
	return audio, mimeType, nil
}
