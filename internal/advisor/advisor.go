// internal/advisor/advisor.go
// Saran hemat energi berbahasa natural. LLM opsional; tanpa API key
// advisor jatuh ke template berbasis hasil engine.

package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gram-meter/internal/analytics"
)

const systemPrompt = `You are an energy advisor for rural electricity users in India.
Answer in simple language a farmer can follow. Keep it under 150 words.
Base every recommendation strictly on the numbers provided.`

type Advice struct {
	MeterID string `json:"meter_id"`
	Text    string `json:"text"`
	Source  string `json:"source"` // "llm" | "template"
}

type Advisor struct {
	client Client // nil = template only
}

func New(client Client) *Advisor { return &Advisor{client: client} }

// Advise merangkai konteks dari hasil engine lalu minta LLM. Kegagalan
// LLM tidak pernah jadi error keluar; selalu ada jawaban template.
func (a *Advisor) Advise(ctx context.Context, meterID string, eff analytics.EfficiencyResult, proj analytics.ProjectionResult, pat analytics.PatternAnalysis) Advice {
	if a.client != nil {
		prompt := buildPrompt(meterID, eff, proj, pat)
		if text, err := a.client.Answer(ctx, systemPrompt, prompt); err == nil && text != "" {
			return Advice{MeterID: meterID, Text: text, Source: "llm"}
		} else if err != nil {
			log.Printf("[WARN] advisor: llm failed, using template: %v", err)
		}
	}
	return Advice{MeterID: meterID, Text: templateAdvice(eff, proj, pat), Source: "template"}
}

func buildPrompt(meterID string, eff analytics.EfficiencyResult, proj analytics.ProjectionResult, pat analytics.PatternAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Meter %s monthly status:\n", meterID)
	fmt.Fprintf(&sb, "- Efficiency score %d (grade %s)\n", eff.OverallScore, eff.Grade)
	fmt.Fprintf(&sb, "- Used %.1f kWh by day %d, projected %.1f kWh (INR %.2f) this month\n",
		proj.KWhSoFar, proj.DayOfMonth, proj.ProjectedTotalKWh, proj.ProjectedCost)
	if len(pat.PeakHours) > 0 {
		fmt.Fprintf(&sb, "- Heaviest usage hours: %v\n", pat.PeakHours)
	}
	for _, ins := range eff.Insights {
		fmt.Fprintf(&sb, "- Issue (%s, priority %s): %s, potential savings %.1f kWh\n",
			ins.Category, ins.Priority, ins.Message, ins.PotentialSavings)
	}
	sb.WriteString("Give 3 concrete actions to lower the bill.")
	return sb.String()
}

// templateAdvice: fallback deterministik dari insight engine.
func templateAdvice(eff analytics.EfficiencyResult, proj analytics.ProjectionResult, pat analytics.PatternAnalysis) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Your efficiency grade is %s (score %d).", eff.Grade, eff.OverallScore))
	lines = append(lines, fmt.Sprintf("At the current pace your bill will be about INR %.2f for %.1f kWh this month.",
		proj.ProjectedCost, proj.ProjectedTotalKWh))
	for _, rec := range eff.Recommendations {
		lines = append(lines, rec)
	}
	if len(pat.PeakHours) > 0 {
		lines = append(lines, fmt.Sprintf("Try moving heavy loads away from your peak hours %v.", pat.PeakHours))
	}
	if len(lines) == 2 {
		lines = append(lines, "Usage looks healthy. Keep pump runs in daytime hours to stay on track.")
	}
	return strings.Join(lines, " ")
}
