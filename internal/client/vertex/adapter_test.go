package vertexclient

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"

	"github.com/GregMSThompson/decision-backend/internal/dto"
)

func TestToGenaiHistory(t *testing.T) {
	history := toGenaiHistory([]dto.VertexContent{
		{Role: "user", Text: "should I move?"},
		{Role: "model", Text: "state your constraints"},
		{Role: "", Text: "  "},
		{Role: "assistant", Text: "unknown role"},
	})

	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	if history[1].Role != "model" {
		t.Fatalf("role = %q", history[1].Role)
	}
	if history[2].Role != "user" {
		t.Fatalf("unknown roles should map to user, got %q", history[2].Role)
	}
	if txt, ok := history[0].Parts[0].(genai.Text); !ok || string(txt) != "should I move?" {
		t.Fatalf("unexpected part %#v", history[0].Parts[0])
	}
}

func TestParseContentResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Risk "), genai.Text("is high.")}}},
			{Content: nil},
		},
	}

	if got := parseContentResponse(resp); got != "Risk is high." {
		t.Fatalf("text = %q", got)
	}
	if got := parseContentResponse(nil); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
