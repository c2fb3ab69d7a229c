// internal/analytics/pattern_test.go

package analytics

import (
	"testing"
	"time"
)

func TestAnalyzePatternEmptyInput(t *testing.T) {
	e := NewEngine()
	res := e.AnalyzePattern(nil)
	if res.Pattern != "insufficient_data" {
		t.Errorf("pattern = %s, want insufficient_data", res.Pattern)
	}
	if len(res.PeakHours) != 0 || len(res.OffPeakHours) != 0 {
		t.Errorf("peak/off-peak must be empty: %+v", res)
	}
	if len(res.Recommendations) == 0 {
		t.Error("empty input still needs a recommendation")
	}
}

func TestAnalyzePatternPeakDetection(t *testing.T) {
	base := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	var history []Reading
	// dua hari data: jam 19 paling berat, jam 3 paling ringan
	powerByHour := map[int]float64{3: 0.1, 7: 0.5, 12: 1.0, 19: 4.0, 20: 3.5, 21: 3.0, 2: 0.2, 5: 0.3}
	for day := 0; day < 2; day++ {
		for hour, p := range powerByHour {
			history = append(history, Reading{
				Timestamp: base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour),
				Power:     p,
			})
		}
	}

	e := NewEngine()
	res := e.AnalyzePattern(history)
	if res.Pattern != "analyzed" {
		t.Fatalf("pattern = %s", res.Pattern)
	}
	if len(res.PeakHours) != 3 || len(res.OffPeakHours) != 3 {
		t.Fatalf("want top/bottom 3, got %v / %v", res.PeakHours, res.OffPeakHours)
	}
	// peak hours di-sort naik: 19,20,21
	if res.PeakHours[0] != 19 || res.PeakHours[2] != 21 {
		t.Errorf("peak hours = %v, want [19 20 21]", res.PeakHours)
	}
	for _, h := range res.OffPeakHours {
		if h != 2 && h != 3 && h != 5 {
			t.Errorf("unexpected off-peak hour %d in %v", h, res.OffPeakHours)
		}
	}
	if len(res.Recommendations) == 0 {
		t.Error("expected shift-load recommendation")
	}
}

// Jam distinct < 3: jangan error, pakai yang ada.
func TestAnalyzePatternDegradesGracefully(t *testing.T) {
	base := time.Date(2025, 11, 10, 8, 0, 0, 0, time.UTC)
	history := []Reading{
		{Timestamp: base, Power: 1.0},
		{Timestamp: base.Add(time.Hour), Power: 2.0},
	}
	e := NewEngine()
	res := e.AnalyzePattern(history)
	if res.Pattern != "analyzed" {
		t.Fatalf("pattern = %s", res.Pattern)
	}
	if len(res.PeakHours) != 2 || len(res.OffPeakHours) != 2 {
		t.Errorf("expected 2 hours each, got %v / %v", res.PeakHours, res.OffPeakHours)
	}
}

// Peak hour di window malam [0,6) memicu rekomendasi phantom load.
func TestAnalyzePatternNightPeakRecommendation(t *testing.T) {
	base := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	history := []Reading{
		{Timestamp: base.Add(2 * time.Hour), Power: 5.0},
		{Timestamp: base.Add(10 * time.Hour), Power: 0.2},
		{Timestamp: base.Add(15 * time.Hour), Power: 0.1},
		{Timestamp: base.Add(20 * time.Hour), Power: 0.3},
	}
	e := NewEngine()
	res := e.AnalyzePattern(history)

	found := false
	for _, rec := range res.Recommendations {
		if rec == "High night consumption detected - check for phantom loads" {
			found = true
		}
	}
	if !found {
		t.Errorf("night peak must trigger phantom-load recommendation: %v", res.Recommendations)
	}
}
