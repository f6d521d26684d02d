package handlers

import (
	"context"
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/internal/response"
)

type DecisionService interface {
	Evaluate(ctx context.Context, uid string, input models.DecisionInput) (*models.HistoryItem, error)
	Steps() []models.LoadingStep
}

type MediaService interface {
	Visual(ctx context.Context, uid, subject, aspectRatio string) (string, error)
	Video(ctx context.Context, uid, historyID string) (string, error)
	Speech(ctx context.Context, text string, language models.Language) ([]byte, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type ChatService interface {
	Chat(ctx context.Context, uid, sessionID, message string) (dto.ChatResponse, error)
	Messages(ctx context.Context, uid, sessionID string) ([]models.ChatMessage, error)
}

type ExplainService interface {
	Explain(ctx context.Context, term string) (dto.ExplainResponse, error)
}

type HistoryService interface {
	List(ctx context.Context, uid string) ([]*models.HistoryItem, error)
	Get(ctx context.Context, uid, id string) (*models.HistoryItem, error)
	Delete(ctx context.Context, uid, id string) error
	Clear(ctx context.Context, uid string) error
}

type PreferencesService interface {
	Get(ctx context.Context, uid string) (*models.UserPreferences, error)
	Update(ctx context.Context, uid string, prefs models.UserPreferences) (*models.UserPreferences, error)
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	DecisionSvc     DecisionService
	MediaSvc        MediaService
	ChatSvc         ChatService
	ExplainSvc      ExplainService
	HistorySvc      HistoryService
	PreferencesSvc  PreferencesService
	MaxUploadSize   int64
}
