// internal/analytics/efficiency.go
// Skor efisiensi 4 komponen berbobot + insight per kategori

package analytics

import (
	"fmt"
	"math"

	"gram-meter/internal/util"
)

// MinEfficiencyWindow: minimal satu hari bacaan per jam.
const MinEfficiencyWindow = 24

// peakHours: jam beban puncak jaringan (pagi 9-11, malam 18-21).
var peakHours = map[int]bool{
	9: true, 10: true, 11: true,
	18: true, 19: true, 20: true, 21: true,
}

// EfficiencyBreakdown: skor komponen 0..100.
type EfficiencyBreakdown struct {
	PowerFactorScore int `json:"power_factor_score"`
	LoadProfileScore int `json:"load_profile_score"`
	PeakUsageScore   int `json:"peak_usage_score"`
	ConsistencyScore int `json:"consistency_score"`
}

// EfficiencyInsight: satu temuan actionable.
type EfficiencyInsight struct {
	Category         string  `json:"category"`
	Message          string  `json:"message"`
	PotentialSavings float64 `json:"potential_savings"`
	Priority         string  `json:"priority"` // high | medium
}

// EfficiencyResult: skor keseluruhan + metrik energi + insight.
type EfficiencyResult struct {
	OverallScore    int                 `json:"overall_score"`
	Grade           string              `json:"grade"`
	Breakdown       EfficiencyBreakdown `json:"breakdown"`
	TotalEnergy     float64             `json:"total_energy"`   // kWh interval, dijumlahkan
	OptimalEnergy   float64             `json:"optimal_energy"` // total * overall/100
	WastedEnergy    float64             `json:"wasted_energy"`
	CostImpact      float64             `json:"cost_impact"` // wasted * rate slab teratas
	Insights        []EfficiencyInsight `json:"insights"`
	Recommendations []string            `json:"recommendations"`
}

// ScoreEfficiency menilai window bacaan (>= 24, idealnya per jam).
// Bobot: power factor 30%, profil beban 30%, jam puncak 20%,
// kualitas tegangan 20%. Metrik energi dihitung dari kWh interval;
// window bertanda EnergyCumulative dinormalkan dulu lewat diff register.
func (e *Engine) ScoreEfficiency(window []Reading) (EfficiencyResult, error) {
	if len(window) < MinEfficiencyWindow {
		return EfficiencyResult{}, util.InsufficientData(
			fmt.Sprintf("need at least %d readings (1 day), got %d", MinEfficiencyWindow, len(window)))
	}

	pfs := make([]float64, len(window))
	powers := make([]float64, len(window))
	voltages := make([]float64, len(window))
	for i, r := range window {
		pfs[i] = r.PowerFactor
		powers[i] = r.Power
		voltages[i] = r.Voltage
	}

	breakdown := EfficiencyBreakdown{
		PowerFactorScore: powerFactorScore(pfs),
		LoadProfileScore: loadProfileScore(powers),
		PeakUsageScore:   peakUsageScore(window),
		ConsistencyScore: voltageConsistencyScore(voltages, e.thresholds.NominalVoltage),
	}

	overall := int(
		float64(breakdown.PowerFactorScore)*0.30 +
			float64(breakdown.LoadProfileScore)*0.30 +
			float64(breakdown.PeakUsageScore)*0.20 +
			float64(breakdown.ConsistencyScore)*0.20)
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	var totalEnergy float64
	for _, v := range intervalEnergies(window) {
		totalEnergy += v
	}
	optimal := totalEnergy * float64(overall) / 100
	wasted := totalEnergy - optimal
	topRate := e.tariff.Slabs[len(e.tariff.Slabs)-1].Rate

	res := EfficiencyResult{
		OverallScore:    overall,
		Grade:           EfficiencyGrade(float64(overall)),
		Breakdown:       breakdown,
		TotalEnergy:     round3(totalEnergy),
		OptimalEnergy:   round3(optimal),
		WastedEnergy:    round3(wasted),
		CostImpact:      round2(wasted * topRate),
		Insights:        e.efficiencyInsights(window, breakdown, totalEnergy, topRate),
		Recommendations: efficiencyRecommendations(breakdown, overall),
	}
	return res, nil
}

// powerFactorScore: band di rata-rata PF. Ideal >= 0.95.
func powerFactorScore(pfs []float64) int {
	avg := mean(pfs)
	switch {
	case avg >= 0.95:
		return 100
	case avg >= 0.90:
		return 90
	case avg >= 0.85:
		return 75
	case avg >= 0.80:
		return 60
	default:
		s := int(avg * 70)
		if s < 0 {
			s = 0
		}
		return s
	}
}

// loadProfileScore: band di coefficient of variation (std/mean).
// Beban stabil = CV rendah = skor tinggi.
func loadProfileScore(powers []float64) int {
	m, std := meanStd(powers)
	if m == 0 {
		return 50
	}
	cv := std / m
	switch {
	case cv < 0.3:
		return 100
	case cv < 0.5:
		return 85
	case cv < 0.7:
		return 70
	case cv < 1.0:
		return 55
	default:
		return 40
	}
}

// peakUsageScore: band di fraksi konsumsi yang jatuh di jam puncak.
func peakUsageScore(window []Reading) int {
	var peak, offPeak float64
	for _, r := range window {
		if peakHours[r.Timestamp.Hour()] {
			peak += r.Power
		} else {
			offPeak += r.Power
		}
	}
	total := peak + offPeak
	if total == 0 {
		return 50
	}
	ratio := peak / total
	switch {
	case ratio < 0.3:
		return 100
	case ratio < 0.4:
		return 85
	case ratio < 0.5:
		return 70
	case ratio < 0.6:
		return 55
	default:
		return 40
	}
}

// voltageConsistencyScore: band di rata-rata deviasi fraksional dari
// tegangan nominal.
func voltageConsistencyScore(voltages []float64, nominal float64) int {
	devs := make([]float64, len(voltages))
	for i, v := range voltages {
		devs[i] = math.Abs(v-nominal) / nominal
	}
	avg := mean(devs)
	switch {
	case avg < 0.05:
		return 100
	case avg < 0.10:
		return 85
	case avg < 0.15:
		return 70
	case avg < 0.20:
		return 55
	default:
		return 40
	}
}

// efficiencyInsights: tiap kategori dievaluasi independen, urutan tetap
// power factor -> load shifting -> power quality -> phantom load.
func (e *Engine) efficiencyInsights(window []Reading, b EfficiencyBreakdown, totalEnergy, rate float64) []EfficiencyInsight {
	insights := []EfficiencyInsight{}

	pfs := make([]float64, len(window))
	for i, r := range window {
		pfs[i] = r.PowerFactor
	}
	if avgPF := mean(pfs); avgPF < 0.90 {
		insights = append(insights, EfficiencyInsight{
			Category:         "Power Factor",
			Message:          fmt.Sprintf("Low power factor (%.2f). Install capacitors to improve.", avgPF),
			PotentialSavings: round2(totalEnergy * rate * 0.10),
			Priority:         "high",
		})
	}

	if b.PeakUsageScore < 70 {
		insights = append(insights, EfficiencyInsight{
			Category:         "Load Shifting",
			Message:          "High consumption during peak hours. Shift heavy loads to off-peak.",
			PotentialSavings: round2(totalEnergy * rate * 0.15),
			Priority:         "medium",
		})
	}

	voltages := make([]float64, len(window))
	for i, r := range window {
		voltages[i] = r.Voltage
	}
	if _, std := meanStd(voltages); std > 15 {
		insights = append(insights, EfficiencyInsight{
			Category:         "Power Quality",
			Message:          "Unstable voltage detected. Install voltage stabilizer.",
			PotentialSavings: round2(totalEnergy * rate * 0.05),
			Priority:         "high",
		})
	}

	var nightPowersW []float64
	for _, r := range window {
		h := r.Timestamp.Hour()
		if h >= 23 || h <= 5 {
			nightPowersW = append(nightPowersW, r.Power*1000)
		}
	}
	if len(nightPowersW) > 0 {
		if avgNight := mean(nightPowersW); avgNight > 100 {
			// 6 jam malam x 30 hari standby
			monthlyWaste := (avgNight / 1000) * 6 * 30
			insights = append(insights, EfficiencyInsight{
				Category:         "Phantom Load",
				Message:          fmt.Sprintf("Standby power consumption detected: %.0fW at night.", avgNight),
				PotentialSavings: round2(monthlyWaste * rate),
				Priority:         "medium",
			})
		}
	}

	return insights
}

func efficiencyRecommendations(b EfficiencyBreakdown, overall int) []string {
	var recs []string
	if b.PowerFactorScore < 85 {
		recs = append(recs, "Install power factor correction capacitors")
	}
	if b.PeakUsageScore < 70 {
		recs = append(recs, "Shift heavy appliances to off-peak hours (11 PM - 6 AM)")
	}
	if b.ConsistencyScore < 75 {
		recs = append(recs, "Install voltage stabilizer to protect equipment")
	}
	if b.LoadProfileScore < 70 {
		recs = append(recs, "Avoid simultaneous operation of high-power appliances")
	}
	if overall >= 90 {
		recs = append(recs, "Excellent! Maintain current usage patterns.")
	}
	return recs
}
