package vertexclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/metrics"
)

type Adapter struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region, model string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

// GenerateContent sends req.Message on a chat session seeded with
// req.Contents and returns the model's reply.
func (a *Adapter) GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (out dto.VertexGenerateResponse, err error) {
	modelName := req.Model
	if modelName == "" {
		modelName = a.model
	}
	if modelName == "" {
		return out, fmt.Errorf("vertex model is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return out, fmt.Errorf("vertex generate request has no content")
	}

	start := time.Now()
	defer func() { metrics.ObserveModelCall(modelName, start, err) }()

	model := a.client.GenerativeModel(modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxOutputTokens != nil {
		model.SetMaxOutputTokens(*req.MaxOutputTokens)
	}

	cs := model.StartChat()
	cs.History = toGenaiHistory(req.Contents)

	resp, err := cs.SendMessage(ctx, genai.Text(req.Message))
	if err != nil {
		return out, err
	}

	out.Raw = resp
	out.Text = parseContentResponse(resp)
	return out, nil
}

func toGenaiHistory(contents []dto.VertexContent) []*genai.Content {
	history := make([]*genai.Content, 0, len(contents))
	for _, c := range contents {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		role := c.Role
		if role != "model" {
			role = "user"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(c.Text)},
		})
	}
	return history
}

func parseContentResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if p, ok := part.(genai.Text); ok {
				text.WriteString(string(p))
			}
		}
	}
	return text.String()
}
