// internal/advisor/advisor_test.go

package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gram-meter/internal/analytics"
)

type fakeClient struct {
	text string
	err  error
}

func (f fakeClient) Answer(_ context.Context, _, _ string) (string, error) { return f.text, f.err }
func (f fakeClient) Model() string                                         { return "fake" }

func sampleInputs() (analytics.EfficiencyResult, analytics.ProjectionResult, analytics.PatternAnalysis) {
	eff := analytics.EfficiencyResult{
		OverallScore:    72,
		Grade:           "C",
		Recommendations: []string{"Shift pump runs to daytime."},
	}
	proj := analytics.ProjectionResult{DayOfMonth: 12, KWhSoFar: 80, ProjectedTotalKWh: 200, ProjectedCost: 830}
	pat := analytics.PatternAnalysis{Pattern: "analyzed", PeakHours: []int{19, 20, 21}}
	return eff, proj, pat
}

// Tanpa client: selalu template, tidak pernah kosong.
func TestAdviseTemplateOnly(t *testing.T) {
	eff, proj, pat := sampleInputs()
	adv := New(nil).Advise(context.Background(), "MTR-1", eff, proj, pat)
	if adv.Source != "template" {
		t.Fatalf("Source = %q, want template", adv.Source)
	}
	if !strings.Contains(adv.Text, "grade C") {
		t.Fatalf("template missing grade: %q", adv.Text)
	}
	if !strings.Contains(adv.Text, "830.00") {
		t.Fatalf("template missing projected cost: %q", adv.Text)
	}
}

// LLM sukses: jawaban model dipakai apa adanya.
func TestAdviseUsesLLM(t *testing.T) {
	eff, proj, pat := sampleInputs()
	adv := New(fakeClient{text: "run the pump at noon"}).Advise(context.Background(), "MTR-1", eff, proj, pat)
	if adv.Source != "llm" || adv.Text != "run the pump at noon" {
		t.Fatalf("unexpected advice: %+v", adv)
	}
}

// LLM gagal: jatuh ke template, bukan error.
func TestAdviseFallsBackOnError(t *testing.T) {
	eff, proj, pat := sampleInputs()
	adv := New(fakeClient{err: errors.New("rate limited")}).Advise(context.Background(), "MTR-1", eff, proj, pat)
	if adv.Source != "template" {
		t.Fatalf("Source = %q, want template", adv.Source)
	}
}

// Prompt memuat angka kunci yang harus jadi dasar jawaban model.
func TestBuildPromptContainsNumbers(t *testing.T) {
	eff, proj, pat := sampleInputs()
	p := buildPrompt("MTR-9", eff, proj, pat)
	for _, want := range []string{"MTR-9", "score 72", "day 12", "200.0 kWh"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}
