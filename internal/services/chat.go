package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

const (
	chatHistoryLimit      = 20
	chatFailedMessage     = "Error communicating with logic core."
	transcriptMessageSize = 200
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type chatStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error)
}

type chatService struct {
	vertex   vertexClient
	store    chatStore
	model    string
	ttl      time.Duration
	clockNow func() time.Time
	newID    func() string
}

func NewChatService(vertex vertexClient, store chatStore, model string, ttl time.Duration) *chatService {
	return &chatService{
		vertex:   vertex,
		store:    store,
		model:    model,
		ttl:      ttl,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

func (s *chatService) Chat(ctx context.Context, uid, sessionID, message string) (dto.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return dto.ChatResponse{}, errs.NewValidationError("message is required")
	}
	if sessionID == "" {
		sessionID = s.newID()
	}
	log, ctx := logger.With(ctx, "session_id", sessionID)

	history, err := s.store.ListMessages(ctx, uid, sessionID, chatHistoryLimit)
	if err != nil {
		return dto.ChatResponse{}, err
	}

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		Model:    s.model,
		System:   chatSystemInstruction,
		Contents: convertMessagesToContents(history),
		Message:  message,
	})
	if err != nil {
		log.Error("chat call failed", "error", err)
		return dto.ChatResponse{}, errs.NewExternalServiceError("vertex", chatFailedMessage, isTransient(err), err)
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.ChatMessage{
		Role: models.ChatRoleUser,
		Text: message,
	}); err != nil {
		return dto.ChatResponse{}, err
	}
	// Only save non-empty model responses
	if resp.Text != "" {
		if err := s.saveMessage(ctx, uid, sessionID, models.ChatMessage{
			Role: models.ChatRoleModel,
			Text: resp.Text,
		}); err != nil {
			return dto.ChatResponse{}, err
		}
	}

	log.Info("chat reply completed", "history_len", len(history))
	return dto.ChatResponse{SessionID: sessionID, Reply: resp.Text}, nil
}

func (s *chatService) Messages(ctx context.Context, uid, sessionID string) ([]models.ChatMessage, error) {
	if sessionID == "" {
		return nil, errs.NewValidationError("sessionId is required")
	}
	return s.store.ListMessages(ctx, uid, sessionID, transcriptMessageSize)
}

func (s *chatService) saveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error {
	now := s.clockNow()
	msg.CreatedAt = now
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

func convertMessagesToContents(history []models.ChatMessage) []dto.VertexContent {
	contents := make([]dto.VertexContent, 0, len(history))
	for _, msg := range history {
		if msg.Text == "" {
			continue
		}
		role := "user"
		if msg.Role == models.ChatRoleModel {
			role = "model"
		}
		contents = append(contents, dto.VertexContent{Role: role, Text: msg.Text})
	}
	return contents
}
