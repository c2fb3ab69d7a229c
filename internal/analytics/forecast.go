// internal/analytics/forecast.go
// Forecast jangka pendek: jam berikutnya + 7 hari ke depan

package analytics

import "math/rand"

// Tag model_type supaya hasil tetap traceable sampai boundary.
const (
	ForecastModelTrained   = "trained_model"
	ForecastFallbackAvg    = "fallback_average"
	ForecastFallbackOnErr  = "fallback_on_error"
)

const forecastLookback = 10

// HourlyForecast: prediksi satu jam ke depan.
type HourlyForecast struct {
	PredictedPower  float64 `json:"predicted_power"`  // kW
	PredictedEnergy float64 `json:"predicted_energy"` // kWh ekuivalen 1 jam
	Confidence      float64 `json:"confidence_score"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	ModelType       string  `json:"model_type"`
}

// DailyForecast: prediksi satu hari dalam forecast mingguan.
type DailyForecast struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	PredictedEnergy float64 `json:"predicted_energy"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	Confidence      float64 `json:"confidence"`
}

// ForecastNextHour memprediksi power jam berikutnya dari trailing window.
// Model terlatih dipakai kalau ada dan sampel >= 10; selain itu rata-rata
// trailing. Error model TIDAK pernah naik ke caller — degradasi ke
// rata-rata dengan confidence 0.5.
func (e *Engine) ForecastNextHour(window []Reading) HourlyForecast {
	powers := make([]float64, len(window))
	for i, r := range window {
		powers[i] = r.Power
	}

	if e.models.Forecast == nil || len(powers) < forecastLookback {
		avg := trailingMean(powers, forecastLookback)
		return HourlyForecast{
			PredictedPower:  round3(avg),
			PredictedEnergy: round3(avg * 1.0),
			Confidence:      0.6,
			LowerBound:      round3(avg * 0.8),
			UpperBound:      round3(avg * 1.2),
			ModelType:       ForecastFallbackAvg,
		}
	}

	recent := powers[len(powers)-forecastLookback:]
	predicted, err := e.models.Forecast.PredictNext(recent)
	if err != nil {
		avg := trailingMean(powers, forecastLookback)
		return HourlyForecast{
			PredictedPower:  round3(avg),
			PredictedEnergy: round3(avg * 1.0),
			Confidence:      0.5,
			LowerBound:      round3(avg * 0.8),
			UpperBound:      round3(avg * 1.2),
			ModelType:       ForecastFallbackOnErr,
		}
	}

	return HourlyForecast{
		PredictedPower:  round3(predicted),
		PredictedEnergy: round3(predicted * 1.0),
		Confidence:      0.85,
		LowerBound:      round3(predicted * 0.85),
		UpperBound:      round3(predicted * 1.15),
		ModelType:       ForecastModelTrained,
	}
}

// ForecastWeek memprediksi konsumsi 7 hari ke depan dari rata-rata harian
// historis (group by tanggal kalender, jumlahkan energi interval;
// histori kumulatif dinormalkan dulu lewat diff register).
// Tanpa histori sama sekali dipakai default 10 kWh/hari. Jitter acak
// per hari dibatasi [0.9, 1.1] x rata-rata.
func (e *Engine) ForecastWeek(history []Reading) []DailyForecast {
	avgDaily := defaultDailyKWh
	if len(history) > 0 {
		intervals := intervalEnergies(history)
		perDay := make(map[string]float64)
		for i, r := range history {
			day := r.Timestamp.Format("2006-01-02")
			perDay[day] += intervals[i]
		}
		if len(perDay) > 0 {
			var sum float64
			for _, v := range perDay {
				sum += v
			}
			avgDaily = sum / float64(len(perDay))
		}
	}

	base := e.clock.Now()
	out := make([]DailyForecast, 0, 7)
	for day := 1; day <= 7; day++ {
		date := base.AddDate(0, 0, day)
		predicted := avgDaily * (0.9 + 0.2*rand.Float64())
		out = append(out, DailyForecast{
			Date:            date.Format("2006-01-02"),
			PredictedEnergy: round2(predicted),
			LowerBound:      round2(predicted * 0.85),
			UpperBound:      round2(predicted * 1.15),
			Confidence:      0.75,
		})
	}
	return out
}

// trailingMean: rata-rata n sampel terakhir (atau semua kalau kurang).
func trailingMean(xs []float64, n int) float64 {
	if len(xs) == 0 {
		return 0
	}
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	return mean(xs)
}
