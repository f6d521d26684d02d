package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/GregMSThompson/decision-backend/internal/models"
)

func TestBuildDecisionParts(t *testing.T) {
	input := models.DecisionInput{
		Question:     "Should we expand to Berlin?",
		Context:      "Series A, 12 staff",
		EnabledRoles: []models.Role{models.RoleAnalyst, models.RoleSkeptic},
		Depth:        models.DepthDeep,
		Level:        models.LevelSimple,
		Language:     models.LanguageEnglish,
		Media: []models.MediaAttachment{
			{Data: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png")), MIMEType: "image/png"},
			{URL: "https://media.example/a.png", MIMEType: "image/png"},
		},
	}

	parts, err := buildDecisionParts(input)
	if err != nil {
		t.Fatalf("buildDecisionParts error: %v", err)
	}

	want := []string{
		"Decision Question: Should we expand to Berlin?",
		"Context / Background: Series A, 12 staff",
		"Enabled Roles: Analyst, Skeptic",
		"Decision Depth: Deep",
		"Explanation Level: Simple",
		"Constraints: None specified",
		"OUTPUT LANGUAGE: English",
	}
	if len(parts) != len(want)+1 {
		t.Fatalf("expected %d parts, got %d", len(want)+1, len(parts))
	}
	for i, w := range want {
		if parts[i].Text != w {
			t.Fatalf("part %d = %q, want %q", i, parts[i].Text, w)
		}
	}
	last := parts[len(parts)-1]
	if last.InlineData == nil || string(last.InlineData.Data) != "png" || last.InlineData.MIMEType != "image/png" {
		t.Fatalf("unexpected inline part: %+v", last.InlineData)
	}
}

func TestBuildDecisionPartsBadMedia(t *testing.T) {
	input := models.DecisionInput{Media: []models.MediaAttachment{{Data: "%%%", MIMEType: "image/png"}}}
	if _, err := buildDecisionParts(input); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCleanModelOutput(t *testing.T) {
	cases := map[string]string{
		"  {\"a\":1}  ":           `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```JSON\n{\"a\":1}```":   `{"a":1}`,
		"```\n{\"a\":1}\n```\n":   `{"a":1}`,
	}
	for in, want := range cases {
		if got := cleanModelOutput(in); got != want {
			t.Fatalf("cleanModelOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecisionResponseSchema(t *testing.T) {
	schema := decisionResponseSchema()

	required := strings.Join(schema.Required, ",")
	for _, field := range []string{"decisionSummary", "finalVerdict", "whatsMissing", "confidenceScore"} {
		if !strings.Contains(required, field) {
			t.Fatalf("%s should be required", field)
		}
	}
	for _, field := range []string{"conditions", "overconfidenceCheck"} {
		if strings.Contains(required, field) {
			t.Fatalf("%s should be optional", field)
		}
		if schema.Properties[field] == nil {
			t.Fatalf("%s missing from properties", field)
		}
	}
	verdicts := schema.Properties["finalVerdict"].Enum
	if len(verdicts) != 3 || verdicts[2] != "Proceed With Conditions" {
		t.Fatalf("unexpected verdict enum: %v", verdicts)
	}
	strength := schema.Properties["biasAndAssumptions"].Properties["assumptions"].Items.Properties["strength"]
	if len(strength.Enum) != 3 {
		t.Fatalf("unexpected strength enum: %v", strength.Enum)
	}
}
