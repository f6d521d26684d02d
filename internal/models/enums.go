package models

import "slices"

type Role string

const (
	RoleOptimist Role = "Optimist"
	RoleSkeptic  Role = "Skeptic"
	RoleAnalyst  Role = "Analyst"
	RoleRealist  Role = "Realist"
	RoleEthicist Role = "Ethicist"
)

var Roles = []Role{RoleOptimist, RoleSkeptic, RoleAnalyst, RoleRealist, RoleEthicist}

func (r Role) Valid() bool { return slices.Contains(Roles, r) }

type Depth string

const (
	DepthQuick Depth = "Quick"
	DepthDeep  Depth = "Deep"
)

var Depths = []Depth{DepthQuick, DepthDeep}

func (d Depth) Valid() bool { return slices.Contains(Depths, d) }

// Level is the explanation level requested for the verdict.
type Level string

const (
	LevelSimple    Level = "Simple"
	LevelDetailed  Level = "Detailed"
	LevelTechnical Level = "Technical"
)

var Levels = []Level{LevelSimple, LevelDetailed, LevelTechnical}

func (l Level) Valid() bool { return slices.Contains(Levels, l) }

type Language string

const (
	LanguageEnglish Language = "English"
	LanguageHindi   Language = "Hindi"
	LanguageMarathi Language = "Marathi"
	LanguageBengali Language = "Bengali"
	LanguageTelugu  Language = "Telugu"
)

var Languages = []Language{LanguageEnglish, LanguageHindi, LanguageMarathi, LanguageBengali, LanguageTelugu}

func (l Language) Valid() bool { return slices.Contains(Languages, l) }

type Verdict string

const (
	VerdictProceed               Verdict = "Proceed"
	VerdictDoNotProceed          Verdict = "Do Not Proceed"
	VerdictProceedWithConditions Verdict = "Proceed With Conditions"
)

var Verdicts = []Verdict{VerdictProceed, VerdictDoNotProceed, VerdictProceedWithConditions}

type AssumptionStrength string

const (
	StrengthStrong  AssumptionStrength = "Strong"
	StrengthWeak    AssumptionStrength = "Weak"
	StrengthUnknown AssumptionStrength = "Unknown"
)

var AssumptionStrengths = []AssumptionStrength{StrengthStrong, StrengthWeak, StrengthUnknown}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Strings converts a slice of string-typed enum values for use in
// schemas and prompts.
func Strings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
