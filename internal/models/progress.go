package models

import "time"

// LoadingStep is one stage of the progress indicator shown while an
// evaluation runs. The steps are cosmetic; they do not track the model.
type LoadingStep struct {
	Agent    string `json:"agent"`
	Task     string `json:"task"`
	Progress int    `json:"progress"`
}

const StepInterval = 2500 * time.Millisecond

var LoadingSteps = []LoadingStep{
	{Agent: "System", Task: "Initializing Neural Logic Core...", Progress: 10},
	{Agent: "Analyst", Task: "Auditing context and extraction of assumptions...", Progress: 25},
	{Agent: "Skeptic", Task: "Identifying high-impact risks and failure modes...", Progress: 40},
	{Agent: "Optimist", Task: "Modeling growth pathways and upside potential...", Progress: 55},
	{Agent: "Realist", Task: "Calculating execution difficulty and constraints...", Progress: 70},
	{Agent: "Ethicist", Task: "Evaluating long-term social and ethical impact...", Progress: 85},
	{Agent: "Arbiter", Task: "Synthesizing verdict and confidence scores...", Progress: 95},
}

// NextStep advances i, holding at the final step.
func NextStep(i int) int {
	if i < len(LoadingSteps)-1 {
		return i + 1
	}
	return len(LoadingSteps) - 1
}
