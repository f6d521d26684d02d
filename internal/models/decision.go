package models

import (
	"encoding/base64"
	"strings"
	"time"
)

// DecisionInput is everything the user submits for one evaluation.
type DecisionInput struct {
	ID           string            `firestore:"id,omitempty" json:"id,omitempty" bson:"id,omitempty"`
	Timestamp    int64             `firestore:"timestamp,omitempty" json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	Question     string            `firestore:"question" json:"question" bson:"question"`
	Context      string            `firestore:"context" json:"context" bson:"context"`
	EnabledRoles []Role            `firestore:"enabledRoles" json:"enabledRoles" bson:"enabledRoles"`
	Depth        Depth             `firestore:"depth" json:"depth" bson:"depth"`
	Level        Level             `firestore:"level" json:"level" bson:"level"`
	Constraints  string            `firestore:"constraints" json:"constraints" bson:"constraints"`
	Language     Language          `firestore:"language" json:"language" bson:"language"`
	Media        []MediaAttachment `firestore:"media,omitempty" json:"media,omitempty" bson:"media,omitempty"`
}

// MediaAttachment carries inline media as base64 (optionally a data URL)
// on the way in. Once persisted, Data is dropped and URL points at the
// stored object.
type MediaAttachment struct {
	Data     string `firestore:"data,omitempty" json:"data,omitempty" bson:"data,omitempty"`
	MIMEType string `firestore:"mimeType" json:"mimeType" bson:"mimeType"`
	URL      string `firestore:"url,omitempty" json:"url,omitempty" bson:"url,omitempty"`
}

// Payload returns the base64 payload with any "data:<mime>;base64," prefix
// removed.
func (m MediaAttachment) Payload() string {
	if i := strings.IndexByte(m.Data, ','); i >= 0 {
		return m.Data[i+1:]
	}
	return m.Data
}

// IsInlineURL reports whether url embeds its content as a data URL.
func IsInlineURL(url string) bool {
	return strings.HasPrefix(url, "data:")
}

func (m MediaAttachment) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(m.Payload())
}

type Assumption struct {
	Text     string             `firestore:"text" json:"text" bson:"text"`
	Strength AssumptionStrength `firestore:"strength" json:"strength" bson:"strength"`
}

type BiasAndAssumptions struct {
	DetectedBias string       `firestore:"detectedBias" json:"detectedBias" bson:"detectedBias"`
	Assumptions  []Assumption `firestore:"assumptions" json:"assumptions" bson:"assumptions"`
}

type RoleInsight struct {
	Role     Role     `firestore:"role" json:"role" bson:"role"`
	Insights []string `firestore:"insights" json:"insights" bson:"insights"`
}

type RiskExposure struct {
	Level         RiskLevel `firestore:"level" json:"level" bson:"level"`
	Justification string    `firestore:"justification" json:"justification" bson:"justification"`
}

type ScenarioOutcomes struct {
	BestCase   string `firestore:"bestCase" json:"bestCase" bson:"bestCase"`
	WorstCase  string `firestore:"worstCase" json:"worstCase" bson:"worstCase"`
	MostLikely string `firestore:"mostLikely" json:"mostLikely" bson:"mostLikely"`
}

type ConfidenceScore struct {
	Percentage  float64 `firestore:"percentage" json:"percentage" bson:"percentage"`
	Explanation string  `firestore:"explanation" json:"explanation" bson:"explanation"`
}

type MissingInfo struct {
	Info   string `firestore:"info" json:"info" bson:"info"`
	Impact string `firestore:"impact" json:"impact" bson:"impact"`
}

type GroundingURL struct {
	Title string `firestore:"title" json:"title" bson:"title"`
	URI   string `firestore:"uri" json:"uri" bson:"uri"`
}

// DecisionResult is the structured verdict returned by the model plus the
// media and grounding the service attaches afterwards.
type DecisionResult struct {
	DecisionSummary     string             `firestore:"decisionSummary" json:"decisionSummary" bson:"decisionSummary"`
	BiasAndAssumptions  BiasAndAssumptions `firestore:"biasAndAssumptions" json:"biasAndAssumptions" bson:"biasAndAssumptions"`
	RoleBasedInsights   []RoleInsight      `firestore:"roleBasedInsights" json:"roleBasedInsights" bson:"roleBasedInsights"`
	RiskExposure        RiskExposure       `firestore:"riskExposure" json:"riskExposure" bson:"riskExposure"`
	ScenarioOutcomes    ScenarioOutcomes   `firestore:"scenarioOutcomes" json:"scenarioOutcomes" bson:"scenarioOutcomes"`
	FinalVerdict        Verdict            `firestore:"finalVerdict" json:"finalVerdict" bson:"finalVerdict"`
	Conditions          []string           `firestore:"conditions,omitempty" json:"conditions,omitempty" bson:"conditions,omitempty"`
	ConfidenceScore     ConfidenceScore    `firestore:"confidenceScore" json:"confidenceScore" bson:"confidenceScore"`
	WhatsMissing        []MissingInfo      `firestore:"whatsMissing" json:"whatsMissing" bson:"whatsMissing"`
	OverconfidenceCheck string             `firestore:"overconfidenceCheck,omitempty" json:"overconfidenceCheck,omitempty" bson:"overconfidenceCheck,omitempty"`
	GroundingURLs       []GroundingURL     `firestore:"groundingUrls,omitempty" json:"groundingUrls,omitempty" bson:"groundingUrls,omitempty"`
	VisualOutcomeURL    string             `firestore:"visualOutcomeUrl,omitempty" json:"visualOutcomeUrl,omitempty" bson:"visualOutcomeUrl,omitempty"`
	VideoOutcomeURL     string             `firestore:"videoOutcomeUrl,omitempty" json:"videoOutcomeUrl,omitempty" bson:"videoOutcomeUrl,omitempty"`
}

// HistoryItem is one persisted evaluation.
type HistoryItem struct {
	ID        string         `firestore:"id" json:"id" bson:"id"`
	Input     DecisionInput  `firestore:"input" json:"input" bson:"input"`
	Result    DecisionResult `firestore:"result" json:"result" bson:"result"`
	CreatedAt time.Time      `firestore:"createdAt" json:"createdAt" bson:"createdAt"`
}
