package dto

import "github.com/GregMSThompson/decision-backend/internal/models"

type VideoResponse struct {
	ID              string `json:"id"`
	VideoOutcomeURL string `json:"videoOutcomeUrl"`
}

type VisualRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type VisualResponse struct {
	URL string `json:"url"`
}

type SpeechRequest struct {
	Text     string          `json:"text"`
	Language models.Language `json:"language,omitempty"`
}

type TranscribeRequest struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

// Stream message types sent over the progress websocket.
const (
	StreamTypeStep   = "step"
	StreamTypeResult = "result"
	StreamTypeError  = "error"
)

type StreamMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type StreamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
