package dto

// VertexGenerateRequest is a text-only, multi-turn request. Contents is the
// prior conversation (oldest first); Message is the new user turn.
type VertexGenerateRequest struct {
	Model           string
	System          string
	Contents        []VertexContent
	Message         string
	Temperature     *float32
	MaxOutputTokens *int32
}

type VertexContent struct {
	Role string // "user" or "model"
	Text string
}

type VertexGenerateResponse struct {
	Text string
	Raw  any
}
