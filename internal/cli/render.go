package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/GregMSThompson/decision-backend/internal/models"
)

func renderResult(th uiTheme, item *models.HistoryItem) string {
	r := item.Result
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n",
		th.verdictStyle(string(r.FinalVerdict)).Render(strings.ToUpper(string(r.FinalVerdict))),
		th.muted.Render(fmt.Sprintf("confidence %.0f%%", r.ConfidenceScore.Percentage)))
	fmt.Fprintf(&b, "%s\n", th.label.Render(item.Input.Question))
	if !item.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "%s\n", th.muted.Render(item.ID+" · "+humanize.Time(item.CreatedAt)))
	}

	section := func(title string) { fmt.Fprintf(&b, "%s\n", th.section.Render(title)) }

	section("Summary")
	fmt.Fprintf(&b, "%s\n", r.DecisionSummary)

	if len(r.Conditions) > 0 {
		section("Conditions")
		for _, c := range r.Conditions {
			fmt.Fprintf(&b, "  • %s\n", c)
		}
	}

	section("Confidence")
	fmt.Fprintf(&b, "%s\n", r.ConfidenceScore.Explanation)

	section("Bias & assumptions")
	if r.BiasAndAssumptions.DetectedBias != "" {
		fmt.Fprintf(&b, "%s %s\n", th.label.Render("Detected bias:"), r.BiasAndAssumptions.DetectedBias)
	}
	for _, a := range r.BiasAndAssumptions.Assumptions {
		fmt.Fprintf(&b, "  • %s %s\n", a.Text, th.muted.Render("("+string(a.Strength)+")"))
	}

	if len(r.RoleBasedInsights) > 0 {
		section("Perspectives")
		for _, ri := range r.RoleBasedInsights {
			fmt.Fprintf(&b, "%s\n", th.label.Render(string(ri.Role)))
			for _, in := range ri.Insights {
				fmt.Fprintf(&b, "  • %s\n", in)
			}
		}
	}

	section("Risk")
	fmt.Fprintf(&b, "%s %s\n", th.label.Render(string(r.RiskExposure.Level)), r.RiskExposure.Justification)

	section("Scenarios")
	fmt.Fprintf(&b, "%s %s\n", th.label.Render("Best:"), r.ScenarioOutcomes.BestCase)
	fmt.Fprintf(&b, "%s %s\n", th.label.Render("Most likely:"), r.ScenarioOutcomes.MostLikely)
	fmt.Fprintf(&b, "%s %s\n", th.label.Render("Worst:"), r.ScenarioOutcomes.WorstCase)

	if len(r.WhatsMissing) > 0 {
		section("What's missing")
		for _, m := range r.WhatsMissing {
			fmt.Fprintf(&b, "  • %s %s\n", m.Info, th.muted.Render("→ "+m.Impact))
		}
	}

	if r.OverconfidenceCheck != "" {
		section("Overconfidence check")
		fmt.Fprintf(&b, "%s\n", r.OverconfidenceCheck)
	}

	if len(r.GroundingURLs) > 0 {
		section("Sources")
		for _, g := range r.GroundingURLs {
			fmt.Fprintf(&b, "  • %s %s\n", g.Title, th.muted.Render(g.URI))
		}
	}

	if r.VisualOutcomeURL != "" || r.VideoOutcomeURL != "" {
		section("Media")
		if r.VisualOutcomeURL != "" {
			fmt.Fprintf(&b, "visual: %s\n", truncate(r.VisualOutcomeURL, 120))
		}
		if r.VideoOutcomeURL != "" {
			fmt.Fprintf(&b, "video: %s\n", truncate(r.VideoOutcomeURL, 120))
		}
	}

	return b.String()
}

// historyLine is one row of the history list.
func historyLine(th uiTheme, item *models.HistoryItem) string {
	return fmt.Sprintf("%s  %-24s %s  %s",
		th.muted.Render(item.ID),
		th.verdictStyle(string(item.Result.FinalVerdict)).Render(string(item.Result.FinalVerdict)),
		truncate(item.Input.Question, 60),
		th.muted.Render(humanize.Time(item.CreatedAt)))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
