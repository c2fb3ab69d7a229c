// internal/analytics/pattern.go
// Analisis pola konsumsi per jam: peak/off-peak + rekomendasi

package analytics

import (
	"fmt"
	"sort"
)

// PatternAnalysis hasil bucketing per jam.
type PatternAnalysis struct {
	Pattern         string          `json:"pattern"` // "analyzed" | "insufficient_data"
	PeakHours       []int           `json:"peak_hours"`
	OffPeakHours    []int           `json:"off_peak_hours"`
	HourlyAverage   map[int]float64 `json:"hourly_average"`
	Recommendations []string        `json:"recommendations"`
	ReadingsUsed    int             `json:"total_readings_analyzed"`
}

// AnalyzePattern melakukan grouping by hour-of-day (0..23) dari timestamp
// lokal, rata-rata power per jam, lalu ambil top-3 (peak) dan bottom-3
// (off-peak). Kurang dari 3 jam distinct tetap jalan dengan apa yang ada;
// input kosong menghasilkan pattern "insufficient_data", tidak pernah error.
func (e *Engine) AnalyzePattern(history []Reading) PatternAnalysis {
	if len(history) == 0 {
		return PatternAnalysis{
			Pattern:         "insufficient_data",
			PeakHours:       []int{},
			OffPeakHours:    []int{},
			HourlyAverage:   map[int]float64{},
			Recommendations: []string{"Need more data for analysis"},
		}
	}

	buckets := make(map[int][]float64)
	for _, r := range history {
		h := r.Timestamp.Hour()
		buckets[h] = append(buckets[h], r.Power)
	}

	hourlyAvg := make(map[int]float64, len(buckets))
	for h, powers := range buckets {
		hourlyAvg[h] = mean(powers)
	}

	type hourAvg struct {
		hour int
		avg  float64
	}
	sorted := make([]hourAvg, 0, len(hourlyAvg))
	for h, a := range hourlyAvg {
		sorted = append(sorted, hourAvg{h, a})
	}
	// urut turun by average; tie-break by hour biar deterministik
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].avg != sorted[j].avg {
			return sorted[i].avg > sorted[j].avg
		}
		return sorted[i].hour < sorted[j].hour
	})

	n := len(sorted)
	topN := 3
	if topN > n {
		topN = n
	}
	peak := make([]int, 0, topN)
	for _, ha := range sorted[:topN] {
		peak = append(peak, ha.hour)
	}
	offPeak := make([]int, 0, topN)
	for _, ha := range sorted[n-topN:] {
		offPeak = append(offPeak, ha.hour)
	}

	recommendations := []string{}
	if len(peak) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Shift non-critical loads from %d:00 to off-peak hours", peak[0]))
	}
	for _, h := range peak {
		if h >= 0 && h < 6 {
			recommendations = append(recommendations,
				"High night consumption detected - check for phantom loads")
			break
		}
	}

	sort.Ints(peak)
	sort.Ints(offPeak)

	return PatternAnalysis{
		Pattern:         "analyzed",
		PeakHours:       peak,
		OffPeakHours:    offPeak,
		HourlyAverage:   hourlyAvg,
		Recommendations: recommendations,
		ReadingsUsed:    len(history),
	}
}
