package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	geminiclient "github.com/GregMSThompson/decision-backend/internal/client/gemini"
	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/metrics"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/helpers"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

const (
	evaluationFailedMessage = "Evaluation failed. The logic engine was unable to parse the context."
	visualAspectRatio       = "16:9"
)

type geminiClient interface {
	GenerateContent(ctx context.Context, req dto.GeminiGenerateRequest) (dto.GeminiGenerateResponse, error)
	GenerateVideo(ctx context.Context, req dto.GeminiVideoRequest) (dto.GeminiVideoResponse, error)
}

type mediaStore interface {
	Put(ctx context.Context, uid, mimeType string, data []byte) (string, error)
}

type preferencesGetter interface {
	Get(ctx context.Context, uid string) (*models.UserPreferences, error)
}

type historyRecorder interface {
	Save(ctx context.Context, uid string, item *models.HistoryItem) error
}

type visualGenerator interface {
	Visual(ctx context.Context, uid, subject, aspectRatio string) (string, error)
}

// DecisionConfig controls how evaluations call the model.
type DecisionConfig struct {
	Model          string
	ThinkingBudget int32
	GoogleSearch   bool
	Visuals        bool
}

type decisionService struct {
	gemini   geminiClient
	prefs    preferencesGetter
	history  historyRecorder
	visuals  visualGenerator
	media    mediaStore
	cfg      DecisionConfig
	clockNow func() time.Time
	newID    func() string
}

func NewDecisionService(gemini geminiClient, prefs preferencesGetter, history historyRecorder, visuals visualGenerator, media mediaStore, cfg DecisionConfig) *decisionService {
	return &decisionService{
		gemini:   gemini,
		prefs:    prefs,
		history:  history,
		visuals:  visuals,
		media:    media,
		cfg:      cfg,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

func (s *decisionService) Steps() []models.LoadingStep {
	return models.LoadingSteps
}

func (s *decisionService) Evaluate(ctx context.Context, uid string, input models.DecisionInput) (*models.HistoryItem, error) {
	log := logger.FromContext(ctx)

	prefs, err := s.prefs.Get(ctx, uid)
	if err != nil {
		log.Warn("failed to load preferences, using defaults", "error", err)
		prefs = nil
	}
	input.ApplyDefaults(prefs)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clockNow()
	input.ID = s.newID()
	input.Timestamp = now.UnixMilli()

	result, err := s.evaluate(ctx, input)
	if err != nil {
		return nil, err
	}

	if s.cfg.Visuals && s.visuals != nil {
		url, err := s.visuals.Visual(ctx, uid, result.DecisionSummary, visualAspectRatio)
		if err != nil {
			log.Warn("visual generation failed", "decision_id", input.ID, "error", err)
		} else {
			result.VisualOutcomeURL = url
		}
	}

	input.Media = s.storeAttachments(ctx, uid, input.Media)

	item := &models.HistoryItem{
		ID:        input.ID,
		Input:     input,
		Result:    *result,
		CreatedAt: now,
	}
	if err := s.history.Save(ctx, uid, item); err != nil {
		log.Error("failed to save decision", "decision_id", item.ID, "error", err)
		return nil, err
	}

	metrics.ObserveVerdict(string(result.FinalVerdict))
	log.Info("decision evaluated", "decision_id", item.ID, "verdict", result.FinalVerdict, "confidence", result.ConfidenceScore.Percentage)
	return item, nil
}

func (s *decisionService) evaluate(ctx context.Context, input models.DecisionInput) (*models.DecisionResult, error) {
	log := logger.FromContext(ctx)

	parts, err := buildDecisionParts(input)
	if err != nil {
		return nil, errs.NewValidationError("invalid media attachment")
	}

	resp, err := s.gemini.GenerateContent(ctx, dto.GeminiGenerateRequest{
		Model:            s.cfg.Model,
		System:           decisionSystemInstruction,
		Parts:            parts,
		ResponseMIMEType: "application/json",
		ResponseSchema:   decisionResponseSchema(),
		ThinkingBudget:   helpers.Ptr(s.cfg.ThinkingBudget),
		GoogleSearch:     s.cfg.GoogleSearch,
	})
	if err != nil {
		log.Error("evaluation call failed", "error", err)
		return nil, errs.NewExternalServiceError("gemini", evaluationFailedMessage, geminiclient.IsTransient(err), err)
	}

	var result models.DecisionResult
	if err := json.Unmarshal([]byte(cleanModelOutput(resp.Text)), &result); err != nil {
		log.Error("failed to parse evaluation", "error", err, "response_length", len(resp.Text))
		return nil, errs.NewExternalServiceError("gemini", evaluationFailedMessage, false, err)
	}

	for _, g := range resp.Grounding {
		result.GroundingURLs = append(result.GroundingURLs, models.GroundingURL{Title: g.Title, URI: g.URI})
	}
	return &result, nil
}

// storeAttachments moves inline attachment data into the media store. An
// upload failure drops the data but keeps the attachment's type. URLs sent
// by the client are never kept.
func (s *decisionService) storeAttachments(ctx context.Context, uid string, media []models.MediaAttachment) []models.MediaAttachment {
	if len(media) == 0 {
		return media
	}
	log := logger.FromContext(ctx)

	out := make([]models.MediaAttachment, 0, len(media))
	for _, m := range media {
		stored := models.MediaAttachment{MIMEType: m.MIMEType}
		data, err := m.Bytes()
		if err == nil {
			stored.URL, err = s.media.Put(ctx, uid, m.MIMEType, data)
		}
		if err != nil {
			log.Warn("failed to store attachment", "mime_type", m.MIMEType, "error", err)
		}
		out = append(out, stored)
	}
	return out
}
