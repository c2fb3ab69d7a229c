// internal/analytics/forecast_test.go

package analytics

import (
	"errors"
	"math"
	"testing"
	"time"
)

type fixedForecaster struct{ v float64 }

func (m fixedForecaster) PredictNext([]float64) (float64, error) { return m.v, nil }

type failingForecaster struct{}

func (failingForecaster) PredictNext([]float64) (float64, error) {
	return 0, errors.New("forecaster broken")
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func hourlyWindow(n int, power float64) []Reading {
	base := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	out := make([]Reading, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Reading{
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Power:      power,
			Energy:     power,
			EnergyKind: EnergyInterval,
		})
	}
	return out
}

func TestForecastNextHourFallbackAverage(t *testing.T) {
	e := NewEngine() // tanpa model
	f := e.ForecastNextHour(hourlyWindow(24, 2.0))
	if f.ModelType != ForecastFallbackAvg {
		t.Errorf("model_type = %s, want %s", f.ModelType, ForecastFallbackAvg)
	}
	if f.Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6", f.Confidence)
	}
	if math.Abs(f.PredictedPower-2.0) > 1e-9 {
		t.Errorf("predicted = %v, want 2.0", f.PredictedPower)
	}
	if math.Abs(f.LowerBound-1.6) > 1e-9 || math.Abs(f.UpperBound-2.4) > 1e-9 {
		t.Errorf("bounds = [%v, %v], want [1.6, 2.4]", f.LowerBound, f.UpperBound)
	}
}

func TestForecastNextHourTrainedModel(t *testing.T) {
	e := NewEngine(WithModels(ModelSet{Forecast: fixedForecaster{v: 3.0}}))
	f := e.ForecastNextHour(hourlyWindow(24, 2.0))
	if f.ModelType != ForecastModelTrained {
		t.Errorf("model_type = %s, want %s", f.ModelType, ForecastModelTrained)
	}
	if f.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", f.Confidence)
	}
	if math.Abs(f.PredictedPower-3.0) > 1e-9 {
		t.Errorf("predicted = %v, want 3.0", f.PredictedPower)
	}
}

// Model ada tapi sampel < 10 -> tetap fallback average.
func TestForecastNextHourShortWindow(t *testing.T) {
	e := NewEngine(WithModels(ModelSet{Forecast: fixedForecaster{v: 3.0}}))
	f := e.ForecastNextHour(hourlyWindow(5, 1.0))
	if f.ModelType != ForecastFallbackAvg {
		t.Errorf("model_type = %s, want fallback on short window", f.ModelType)
	}
}

// Error model tidak boleh naik ke caller; degradasi confidence 0.5.
func TestForecastNextHourModelError(t *testing.T) {
	e := NewEngine(WithModels(ModelSet{Forecast: failingForecaster{}}))
	f := e.ForecastNextHour(hourlyWindow(24, 2.0))
	if f.ModelType != ForecastFallbackOnErr {
		t.Errorf("model_type = %s, want %s", f.ModelType, ForecastFallbackOnErr)
	}
	if f.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", f.Confidence)
	}
}

func TestForecastWeekJitterBounded(t *testing.T) {
	clock := fixedClock{t: time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)}
	e := NewEngine(WithClock(clock))

	// 3 hari histori, 1 kWh per jam -> 24 kWh/hari
	history := hourlyWindow(72, 1.0)

	for trial := 0; trial < 20; trial++ {
		week := e.ForecastWeek(history)
		if len(week) != 7 {
			t.Fatalf("want 7 days, got %d", len(week))
		}
		for _, d := range week {
			// jitter dibatasi [0.9, 1.1] x rata-rata harian (24 kWh),
			// plus toleransi pembulatan 2dp
			if d.PredictedEnergy < 24*0.9-0.01 || d.PredictedEnergy > 24*1.1+0.01 {
				t.Fatalf("day %s outside jitter bounds: %v", d.Date, d.PredictedEnergy)
			}
			if d.Confidence != 0.75 {
				t.Errorf("confidence = %v, want 0.75", d.Confidence)
			}
		}
	}
}

// Histori dari register kumulatif harus dinormalkan per interval dulu;
// menjumlahkan nilai register mentah akan memprediksi belasan ribu
// kWh/hari.
func TestForecastWeekCumulativeHistory(t *testing.T) {
	clock := fixedClock{t: time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)}
	e := NewEngine(WithClock(clock))

	// 3 hari, register mulai 500 naik 1 kWh/jam
	base := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)
	history := make([]Reading, 0, 72)
	for i := 0; i < 72; i++ {
		history = append(history, Reading{
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Power:      1.0,
			Energy:     500 + float64(i),
			EnergyKind: EnergyCumulative,
		})
	}

	// delta total 71 kWh dibagi 3 hari kalender
	avgDaily := 71.0 / 3
	week := e.ForecastWeek(history)
	for _, d := range week {
		if d.PredictedEnergy < avgDaily*0.9-0.01 || d.PredictedEnergy > avgDaily*1.1+0.01 {
			t.Fatalf("day %s predicted %v, want around %.2f kWh", d.Date, d.PredictedEnergy, avgDaily)
		}
	}
}

func TestForecastWeekNoHistoryDefaults(t *testing.T) {
	clock := fixedClock{t: time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)}
	e := NewEngine(WithClock(clock))
	week := e.ForecastWeek(nil)
	if len(week) != 7 {
		t.Fatalf("want 7 days, got %d", len(week))
	}
	if week[0].Date != "2025-11-13" {
		t.Errorf("first forecast date = %s, want 2025-11-13", week[0].Date)
	}
	for _, d := range week {
		// default 10 kWh/hari
		if d.PredictedEnergy < 9-0.01 || d.PredictedEnergy > 11+0.01 {
			t.Errorf("default daily forecast out of range: %v", d.PredictedEnergy)
		}
	}
}
