package services

import (
	"fmt"
	"strings"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

const decisionSystemInstruction = `You are DECIDO, an AI-powered decision engine. 
You are not a chatbot, not an advisor, and not a motivational assistant. 
Your sole purpose is to evaluate decisions through structured multi-agent reasoning and deliver a clear, justified outcome.

RULES:
1. Never give a single-perspective answer.
2. Never skip reasoning.
3. Never invent missing data. Explicitly state if info is insufficient.
4. Execute every enabled role fully.
5. Output must always be JSON format.
6. Identity: Truth over confidence. Clarity over comfort. Debate before deciding.
7. If Google Search is enabled, use it to find the most recent and accurate data to ground your evaluation.
8. CRITICAL: You must provide all textual content within the JSON response in the REQUESTED LANGUAGE.`

const (
	visualPromptTemplate     = "A conceptual, professional, symbolic representation of: %s. Minimalist, futuristic, slate and emerald color palette."
	videoPromptTemplate      = "Cinematic conceptual video representing the decision: %s. Smooth camera movement, slate and emerald tones."
	speechPromptTemplate     = "In %s, read this neutral summary: %s"
	transcribePrompt         = "Transcribe the audio accurately. Only return the transcription text."
	explainPromptTemplate    = "Briefly explain this decision engine term: %s"
	chatSystemInstruction    = "You are the conversational interface for DECIDO. You answer questions about reasoning processes, explain decision logic, and help clarify inputs. Be concise, clinical, and objective."
	noConstraintsPlaceholder = "None specified"
)

func str(desc string) *dto.Schema {
	return &dto.Schema{Type: "string", Description: desc}
}

func enum(values []string) *dto.Schema {
	return &dto.Schema{Type: "string", Enum: values}
}

func decisionResponseSchema() *dto.Schema {
	return &dto.Schema{
		Type: "object",
		Properties: map[string]*dto.Schema{
			"decisionSummary": str("Neutral restatement of the decision being evaluated."),
			"biasAndAssumptions": {
				Type: "object",
				Properties: map[string]*dto.Schema{
					"detectedBias": str(""),
					"assumptions": {
						Type: "array",
						Items: &dto.Schema{
							Type: "object",
							Properties: map[string]*dto.Schema{
								"text":     str(""),
								"strength": enum(models.Strings(models.AssumptionStrengths)),
							},
							Required: []string{"text", "strength"},
						},
					},
				},
				Required: []string{"detectedBias", "assumptions"},
			},
			"roleBasedInsights": {
				Type: "array",
				Items: &dto.Schema{
					Type: "object",
					Properties: map[string]*dto.Schema{
						"role":     str(""),
						"insights": {Type: "array", Items: str("")},
					},
					Required: []string{"role", "insights"},
				},
			},
			"riskExposure": {
				Type: "object",
				Properties: map[string]*dto.Schema{
					"level":         enum(models.Strings(models.RiskLevels)),
					"justification": str(""),
				},
				Required: []string{"level", "justification"},
			},
			"scenarioOutcomes": {
				Type: "object",
				Properties: map[string]*dto.Schema{
					"bestCase":   str(""),
					"worstCase":  str(""),
					"mostLikely": str(""),
				},
				Required: []string{"bestCase", "worstCase", "mostLikely"},
			},
			"finalVerdict": enum(models.Strings(models.Verdicts)),
			"conditions":   {Type: "array", Items: str("")},
			"confidenceScore": {
				Type: "object",
				Properties: map[string]*dto.Schema{
					"percentage":  {Type: "number"},
					"explanation": str(""),
				},
				Required: []string{"percentage", "explanation"},
			},
			"whatsMissing": {
				Type: "array",
				Items: &dto.Schema{
					Type: "object",
					Properties: map[string]*dto.Schema{
						"info":   str(""),
						"impact": str(""),
					},
					Required: []string{"info", "impact"},
				},
			},
			"overconfidenceCheck": str(""),
		},
		Required: []string{
			"decisionSummary",
			"biasAndAssumptions",
			"roleBasedInsights",
			"riskExposure",
			"scenarioOutcomes",
			"finalVerdict",
			"confidenceScore",
			"whatsMissing",
		},
	}
}

// buildDecisionParts renders the input as ordered text parts followed by one
// inline part per attachment.
func buildDecisionParts(input models.DecisionInput) ([]dto.GeminiPart, error) {
	constraints := strings.TrimSpace(input.Constraints)
	if constraints == "" {
		constraints = noConstraintsPlaceholder
	}

	parts := []dto.GeminiPart{
		{Text: "Decision Question: " + input.Question},
		{Text: "Context / Background: " + input.Context},
		{Text: "Enabled Roles: " + strings.Join(models.Strings(input.EnabledRoles), ", ")},
		{Text: "Decision Depth: " + string(input.Depth)},
		{Text: "Explanation Level: " + string(input.Level)},
		{Text: "Constraints: " + constraints},
		{Text: "OUTPUT LANGUAGE: " + string(input.Language)},
	}

	for i, m := range input.Media {
		if m.Payload() == "" {
			continue
		}
		data, err := m.Bytes()
		if err != nil {
			return nil, fmt.Errorf("decode media %d: %w", i, err)
		}
		parts = append(parts, dto.GeminiPart{InlineData: &dto.GeminiBlob{Data: data, MIMEType: m.MIMEType}})
	}
	return parts, nil
}

// cleanModelOutput strips surrounding whitespace and an optional markdown
// code fence.
func cleanModelOutput(output string) string {
	cleaned := strings.TrimSpace(output)
	for _, fence := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(cleaned, fence) {
			cleaned = strings.TrimPrefix(cleaned, fence)
			break
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
