package dto

// Schema is a provider-neutral description of a structured response,
// converted to the SDK's schema type by the client adapters.
type Schema struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
}

type GeminiBlob struct {
	Data     []byte
	MIMEType string
}

// GeminiPart is either text or inline data.
type GeminiPart struct {
	Text       string
	InlineData *GeminiBlob
}

type GeminiGenerateRequest struct {
	Model              string
	System             string
	Parts              []GeminiPart
	ResponseMIMEType   string
	ResponseSchema     *Schema
	ThinkingBudget     *int32
	GoogleSearch       bool
	ImageAspectRatio   string
	ImageSize          string
	ResponseModalities []string
	VoiceName          string
}

type GroundingSource struct {
	Title string
	URI   string
}

type GeminiGenerateResponse struct {
	Text      string
	Blobs     []GeminiBlob
	Grounding []GroundingSource
}

type GeminiVideoRequest struct {
	Model          string
	Prompt         string
	NumberOfVideos int32
	Resolution     string
	AspectRatio    string
}

type GeminiVideoResponse struct {
	Data     []byte
	MIMEType string
	URI      string
}
