package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	geminiclient "github.com/GregMSThompson/decision-backend/internal/client/gemini"
	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

const (
	speechVoice       = "Charon"
	speechSampleRate  = 24000
	speechChannels    = 1
	speechBitsPerSamp = 16

	videoResolution  = "720p"
	videoMIMEType    = "video/mp4"
	speechFailedText = "Audio generation failed"
	visualFailedText = "Visual generation failed"
	videoFailedText  = "Video generation failed"
)

type historyReadWriter interface {
	Get(ctx context.Context, uid, id string) (*models.HistoryItem, error)
	Save(ctx context.Context, uid string, item *models.HistoryItem) error
}

// MediaModels names the model used for each media operation.
type MediaModels struct {
	Image      string
	Video      string
	TTS        string
	Transcribe string
}

type mediaService struct {
	gemini  geminiClient
	media   mediaStore
	history historyReadWriter
	models  MediaModels
}

func NewMediaService(gemini geminiClient, media mediaStore, history historyReadWriter, mm MediaModels) *mediaService {
	return &mediaService{
		gemini:  gemini,
		media:   media,
		history: history,
		models:  mm,
	}
}

// Visual renders a symbolic image for subject and returns its stored URL.
func (s *mediaService) Visual(ctx context.Context, uid, subject, aspectRatio string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errs.NewValidationError("prompt is required")
	}
	if aspectRatio == "" {
		aspectRatio = visualAspectRatio
	}

	resp, err := s.gemini.GenerateContent(ctx, dto.GeminiGenerateRequest{
		Model:            s.models.Image,
		Parts:            []dto.GeminiPart{{Text: fmt.Sprintf(visualPromptTemplate, subject)}},
		ImageAspectRatio: aspectRatio,
		ImageSize:        "1K",
	})
	if err != nil {
		return "", errs.NewExternalServiceError("gemini", visualFailedText, geminiclient.IsTransient(err), err)
	}

	for _, blob := range resp.Blobs {
		if strings.HasPrefix(blob.MIMEType, "image/") && len(blob.Data) > 0 {
			return s.media.Put(ctx, uid, blob.MIMEType, blob.Data)
		}
	}
	return "", errs.NewExternalServiceError("gemini", visualFailedText, false, fmt.Errorf("model returned no image"))
}

// Video generates a clip for a saved decision and records its URL on the
// history item.
func (s *mediaService) Video(ctx context.Context, uid, historyID string) (string, error) {
	log := logger.FromContext(ctx)

	item, err := s.history.Get(ctx, uid, historyID)
	if err != nil {
		return "", err
	}

	video, err := s.gemini.GenerateVideo(ctx, dto.GeminiVideoRequest{
		Model:          s.models.Video,
		Prompt:         fmt.Sprintf(videoPromptTemplate, item.Result.DecisionSummary),
		NumberOfVideos: 1,
		Resolution:     videoResolution,
		AspectRatio:    visualAspectRatio,
	})
	if err != nil {
		log.Error("video generation failed", "decision_id", historyID, "error", err)
		return "", errs.NewExternalServiceError("gemini", videoFailedText, geminiclient.IsTransient(err), err)
	}
	if len(video.Data) == 0 {
		return "", errs.NewExternalServiceError("gemini", videoFailedText, false, fmt.Errorf("video has no content"))
	}

	url, err := s.media.Put(ctx, uid, videoMIMEType, video.Data)
	if err != nil {
		return "", err
	}

	item.Result.VideoOutcomeURL = url
	if err := s.history.Save(ctx, uid, item); err != nil {
		return "", err
	}

	log.Info("decision video generated", "decision_id", historyID, "bytes", len(video.Data))
	return url, nil
}

// Speech reads text aloud and returns a WAV file.
func (s *mediaService) Speech(ctx context.Context, text string, language models.Language) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.NewValidationError("text is required")
	}
	if language == "" {
		language = models.DefaultLanguage
	}

	resp, err := s.gemini.GenerateContent(ctx, dto.GeminiGenerateRequest{
		Model:              s.models.TTS,
		Parts:              []dto.GeminiPart{{Text: fmt.Sprintf(speechPromptTemplate, language, text)}},
		ResponseModalities: []string{"AUDIO"},
		VoiceName:          speechVoice,
	})
	if err != nil {
		return nil, errs.NewExternalServiceError("gemini", speechFailedText, geminiclient.IsTransient(err), err)
	}

	for _, blob := range resp.Blobs {
		if len(blob.Data) == 0 {
			continue
		}
		if strings.HasPrefix(blob.MIMEType, "audio/wav") {
			return blob.Data, nil
		}
		return pcmToWAV(blob.Data, sampleRateFromMIME(blob.MIMEType)), nil
	}
	return nil, errs.NewExternalServiceError("gemini", speechFailedText, false, fmt.Errorf("model returned no audio"))
}

// Transcribe returns the text spoken in audio. Silence yields "".
func (s *mediaService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", errs.NewValidationError("audio is required")
	}
	if mimeType == "" {
		return "", errs.NewValidationError("mimeType is required")
	}

	resp, err := s.gemini.GenerateContent(ctx, dto.GeminiGenerateRequest{
		Model: s.models.Transcribe,
		Parts: []dto.GeminiPart{
			{InlineData: &dto.GeminiBlob{Data: audio, MIMEType: mimeType}},
			{Text: transcribePrompt},
		},
	})
	if err != nil {
		return "", errs.NewExternalServiceError("gemini", "Transcription failed", geminiclient.IsTransient(err), err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// sampleRateFromMIME reads the rate parameter of e.g. "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && strings.EqualFold(key, "rate") {
			if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return speechSampleRate
}

// pcmToWAV prefixes 16-bit mono little-endian PCM with a RIFF/WAVE header.
func pcmToWAV(pcm []byte, sampleRate int) []byte {
	blockAlign := speechChannels * speechBitsPerSamp / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(speechChannels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(speechBitsPerSamp))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
