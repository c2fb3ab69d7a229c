// internal/analytics/projection.go
// Proyeksi konsumsi bulanan + biaya + grade efisiensi

package analytics

import (
	"fmt"
	"math"

	"gram-meter/internal/util"
)

// DaysInMonth disederhanakan jadi 30, tidak akurat kalender.
// Mengikuti perilaku sistem lama; diangkat jadi konstanta terdokumentasi.
const DaysInMonth = 30

// defaultDailyKWh dipakai saat tidak ada data sama sekali untuk
// ekstrapolasi linear.
const defaultDailyKWh = 10.0

// ProjectionInput adalah parameter proyeksi bulanan.
type ProjectionInput struct {
	DayOfMonth  int     // 1..31
	KWhSoFar    float64 // kumulatif bulan berjalan, >= 0
	AvgLoadFlag float64 // rata-rata flag pompa 0..1
	AvgVoltage  float64 // V
}

// ProjectionResult hasil lengkap untuk boundary persistence/API.
type ProjectionResult struct {
	DayOfMonth        int     `json:"day_of_month"`
	KWhSoFar          float64 `json:"kwh_so_far"`
	ProjectedTotalKWh float64 `json:"projected_total_kwh"`
	ProjectedCost     float64 `json:"projected_cost"`
	EfficiencyScore   float64 `json:"efficiency_score"`
	EfficiencyGrade   string  `json:"efficiency_grade"`
	Source            string  `json:"source"` // "model" | "linear_fallback" | "month_complete"
}

// ProjectMonthly memproyeksikan total kWh akhir bulan dari lintasan
// sebagian bulan. Jalur model (regresi rata-rata harian) dicoba dulu;
// kegagalan model TIDAK pernah menjalar keluar — selalu jatuh ke
// ekstrapolasi linear. Hanya input malformed yang jadi hard error.
func (e *Engine) ProjectMonthly(in ProjectionInput) (ProjectionResult, error) {
	if in.DayOfMonth < 1 || in.DayOfMonth > 31 {
		return ProjectionResult{}, util.BadInput(fmt.Sprintf("day_of_month must be in [1,31], got %d", in.DayOfMonth))
	}
	if in.KWhSoFar < 0 {
		return ProjectionResult{}, util.BadInput(fmt.Sprintf("kwh_so_far must be >= 0, got %v", in.KWhSoFar))
	}

	daysRemaining := DaysInMonth - in.DayOfMonth

	var projected float64
	source := "linear_fallback"

	if daysRemaining <= 0 {
		// bulan selesai: tidak ada yang diproyeksikan
		projected = in.KWhSoFar
		source = "month_complete"
	} else {
		predicted := false
		if e.models.Daily != nil {
			f := DailyFeatures{AvgLoadFlag: in.AvgLoadFlag, AvgVoltage: in.AvgVoltage}
			if dailyAvg, err := e.models.Daily.PredictDailyAverage(f); err == nil && dailyAvg >= 0 {
				projected = in.KWhSoFar + dailyAvg*float64(daysRemaining)
				source = "model"
				predicted = true
			}
		}
		if !predicted {
			dailyAvg := defaultDailyKWh
			if in.DayOfMonth > 0 {
				dailyAvg = in.KWhSoFar / float64(in.DayOfMonth)
			}
			projected = in.KWhSoFar + dailyAvg*float64(daysRemaining)
		}
	}
	projected = round2(projected)

	cost, err := BillAmount(projected, e.tariff)
	if err != nil {
		return ProjectionResult{}, err
	}

	score := projectionEfficiencyScore(projected)
	return ProjectionResult{
		DayOfMonth:        in.DayOfMonth,
		KWhSoFar:          in.KWhSoFar,
		ProjectedTotalKWh: projected,
		ProjectedCost:     round2(cost),
		EfficiencyScore:   round2(score),
		EfficiencyGrade:   EfficiencyGrade(score),
		Source:            source,
	}, nil
}

// projectionEfficiencyScore: konsumsi lebih tinggi = skor lebih rendah.
// Breakpoint mengikuti batas slab tarif.
func projectionEfficiencyScore(projectedTotal float64) float64 {
	switch {
	case projectedTotal <= 100:
		return 95.0
	case projectedTotal <= 250:
		return 70 + (250-projectedTotal)/150*20
	default:
		return math.Max(10, 50-(projectedTotal-250)/10)
	}
}

// EfficiencyGrade memetakan skor 0..100 ke grade huruf.
func EfficiencyGrade(score float64) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
