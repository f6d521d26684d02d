package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/metrics"
	"github.com/GregMSThompson/decision-backend/pkg/helpers"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

// Explanations are short and should not wander.
const (
	explainTemperature = 0.2
	explainMaxTokens   = 256
)

type explainCache interface {
	Get(ctx context.Context, term string) (string, bool, error)
	Set(ctx context.Context, term, explanation string) error
}

type explainService struct {
	vertex vertexClient
	cache  explainCache
	model  string
}

// NewExplainService builds the explain service. cache may be nil.
func NewExplainService(vertex vertexClient, cache explainCache, model string) *explainService {
	return &explainService{vertex: vertex, cache: cache, model: model}
}

func (s *explainService) Explain(ctx context.Context, term string) (dto.ExplainResponse, error) {
	log := logger.FromContext(ctx)

	term = strings.TrimSpace(term)
	if term == "" {
		return dto.ExplainResponse{}, errs.NewValidationError("term is required")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, term)
		if err != nil {
			log.Warn("explain cache read failed", "error", err)
		}
		metrics.ObserveCacheLookup(ok)
		if ok {
			return dto.ExplainResponse{Term: term, Explanation: cached}, nil
		}
	}

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		Model:           s.model,
		Message:         fmt.Sprintf(explainPromptTemplate, term),
		Temperature:     helpers.Ptr(float32(explainTemperature)),
		MaxOutputTokens: helpers.Ptr(int32(explainMaxTokens)),
	})
	if err != nil {
		return dto.ExplainResponse{}, errs.NewExternalServiceError("vertex", "Explanation unavailable", isTransient(err), err)
	}
	explanation := strings.TrimSpace(resp.Text)

	if s.cache != nil && explanation != "" {
		if err := s.cache.Set(ctx, term, explanation); err != nil {
			log.Warn("explain cache write failed", "error", err)
		}
	}
	return dto.ExplainResponse{Term: term, Explanation: explanation}, nil
}
