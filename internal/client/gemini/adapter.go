package geminiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/metrics"
)

const (
	defaultPollInterval = 5 * time.Second

	groundingTitleFallback = "Source"
	groundingURIFallback   = "#"
)

// videoAPI is the slice of the SDK that long-running video jobs use.
type videoAPI interface {
	start(ctx context.Context, model, prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
	download(ctx context.Context, video *genai.Video) ([]byte, error)
}

type sdkVideoAPI struct {
	client *genai.Client
}

func (v sdkVideoAPI) start(ctx context.Context, model, prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return v.client.Models.GenerateVideos(ctx, model, prompt, nil, cfg)
}

func (v sdkVideoAPI) poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return v.client.Operations.GetVideosOperation(ctx, op, nil)
}

func (v sdkVideoAPI) download(ctx context.Context, video *genai.Video) ([]byte, error) {
	return v.client.Files.Download(ctx, genai.NewDownloadURIFromVideo(video), nil)
}

type Adapter struct {
	client       *genai.Client
	video        videoAPI
	log          *slog.Logger
	pollInterval time.Duration
}

func NewAdapter(ctx context.Context, log *slog.Logger, apiKey string, pollInterval time.Duration) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Adapter{
		client:       client,
		video:        sdkVideoAPI{client: client},
		log:          log,
		pollInterval: pollInterval,
	}, nil
}

// Close exists for symmetry with the other adapters; the genai client holds
// no resources that need releasing.
func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) GenerateContent(ctx context.Context, req dto.GeminiGenerateRequest) (out dto.GeminiGenerateResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveModelCall(req.Model, start, err) }()

	if req.Model == "" {
		return out, fmt.Errorf("gemini model is required")
	}
	parts := toGenaiParts(req.Parts)
	if len(parts) == 0 {
		return out, fmt.Errorf("gemini generate request has no content")
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := a.client.Models.GenerateContent(ctx, req.Model, contents, buildConfig(req))
	if err != nil {
		return out, err
	}

	return parseContentResponse(resp), nil
}

// GenerateVideo starts a long-running video job, polls it until done and
// downloads the first generated video.
func (a *Adapter) GenerateVideo(ctx context.Context, req dto.GeminiVideoRequest) (out dto.GeminiVideoResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveModelCall(req.Model, start, err) }()

	if req.Model == "" {
		return out, fmt.Errorf("gemini video model is required")
	}

	op, err := a.video.start(ctx, req.Model, req.Prompt, &genai.GenerateVideosConfig{
		NumberOfVideos: req.NumberOfVideos,
		Resolution:     req.Resolution,
		AspectRatio:    req.AspectRatio,
	})
	if err != nil {
		return out, err
	}

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-ticker.C:
		}
		// both cases may be ready at once
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if a.log != nil {
			a.log.Debug("polling video operation", "operation", op.Name)
		}
		op, err = a.video.poll(ctx, op)
		if err != nil {
			return out, err
		}
	}

	video, err := videoFromOperation(op)
	if err != nil {
		return out, err
	}

	out.MIMEType = video.MIMEType
	out.URI = video.URI
	out.Data = video.VideoBytes
	if len(out.Data) == 0 && video.URI != "" {
		data, err := a.video.download(ctx, video)
		if err != nil {
			return out, err
		}
		out.Data = data
	}
	if out.MIMEType == "" {
		out.MIMEType = "video/mp4"
	}
	return out, nil
}

// IsTransient reports whether err is worth retrying later: rate limits,
// upstream outages and deadlines.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}

func buildConfig(req dto.GeminiGenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType:   req.ResponseMIMEType,
		ResponseSchema:     toGenaiSchema(req.ResponseSchema),
		ResponseModalities: req.ResponseModalities,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.ThinkingBudget != nil {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: req.ThinkingBudget}
	}
	if req.GoogleSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.ImageAspectRatio != "" || req.ImageSize != "" {
		cfg.ImageConfig = &genai.ImageConfig{
			AspectRatio: req.ImageAspectRatio,
			ImageSize:   req.ImageSize,
		}
	}
	if req.VoiceName != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.VoiceName},
			},
		}
	}
	return cfg
}

func toGenaiParts(parts []dto.GeminiPart) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.InlineData != nil:
			out = append(out, genai.NewPartFromBytes(p.InlineData.Data, p.InlineData.MIMEType))
		case p.Text != "":
			out = append(out, genai.NewPartFromText(p.Text))
		}
	}
	return out
}

func parseContentResponse(resp *genai.GenerateContentResponse) dto.GeminiGenerateResponse {
	out := dto.GeminiGenerateResponse{}
	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part == nil || part.Thought {
					continue
				}
				if part.InlineData != nil {
					out.Blobs = append(out.Blobs, dto.GeminiBlob{
						Data:     part.InlineData.Data,
						MIMEType: part.InlineData.MIMEType,
					})
					continue
				}
				out.Text += part.Text
			}
		}
		out.Grounding = append(out.Grounding, groundingSources(candidate.GroundingMetadata)...)
	}
	return out
}

func groundingSources(meta *genai.GroundingMetadata) []dto.GroundingSource {
	if meta == nil {
		return nil
	}
	var out []dto.GroundingSource
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		src := dto.GroundingSource{Title: chunk.Web.Title, URI: chunk.Web.URI}
		if src.Title == "" {
			src.Title = groundingTitleFallback
		}
		if src.URI == "" {
			src.URI = groundingURIFallback
		}
		out = append(out, src)
	}
	return out
}

func videoFromOperation(op *genai.GenerateVideosOperation) (*genai.Video, error) {
	if op == nil {
		return nil, fmt.Errorf("video operation missing")
	}
	if len(op.Error) > 0 {
		return nil, fmt.Errorf("video operation %s failed: %v", op.Name, op.Error["message"])
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil, fmt.Errorf("video operation %s returned no videos", op.Name)
	}
	generated := op.Response.GeneratedVideos[0]
	if generated == nil || generated.Video == nil {
		return nil, fmt.Errorf("video operation %s returned an empty video", op.Name)
	}
	return generated.Video, nil
}

func toGenaiSchema(schema *dto.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        toGenaiType(schema.Type),
		Description: schema.Description,
		Enum:        schema.Enum,
		Required:    schema.Required,
	}

	if schema.Items != nil {
		out.Items = toGenaiSchema(schema.Items)
	}
	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for key, value := range schema.Properties {
			out.Properties[key] = toGenaiSchema(value)
		}
	}

	return out
}

func toGenaiType(schemaType string) genai.Type {
	switch schemaType {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
