// internal/analytics/modelfile.go
// Loader koefisien model dari file JSON (sekali saat startup)

package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gram-meter/internal/util"
)

// modelFile adalah bentuk on-disk koefisien hasil training offline.
// Setiap section opsional; section yang hilang membuat slot ModelSet nil.
type modelFile struct {
	Outlier *struct {
		MeanPower    float64 `json:"mean_power"`
		StdPower     float64 `json:"std_power"`
		MeanVoltDev  float64 `json:"mean_volt_dev"`
		StdVoltDev   float64 `json:"std_volt_dev"`
		ZThreshold   float64 `json:"z_threshold"`
		LoadFlagBias float64 `json:"load_flag_bias"`
	} `json:"outlier"`
	Daily *struct {
		Intercept   float64 `json:"intercept"`
		CoefLoad    float64 `json:"coef_load"`
		CoefVoltage float64 `json:"coef_voltage"`
	} `json:"daily"`
	Forecast *struct {
		Intercept float64   `json:"intercept"`
		Weights   []float64 `json:"weights"` // weight per lag, terbaru di belakang
	} `json:"forecast"`
}

// LoadModelSet membaca koefisien dari path. Error di sini memang
// dikembalikan ke caller (startup) dengan code model_unavailable;
// caller yang memutuskan jalan tanpa model. Jalur analitik panas tidak
// pernah menyentuh file ini lagi.
func LoadModelSet(path string) (ModelSet, error) {
	var ms ModelSet
	raw, err := os.ReadFile(path)
	if err != nil {
		return ms, util.ModelUnavailable(fmt.Sprintf("read model file %s: %v", path, err))
	}
	var mf modelFile
	if err := json.Unmarshal(raw, &mf); err != nil {
		return ms, util.ModelUnavailable(fmt.Sprintf("decode model file %s: %v", path, err))
	}

	if mf.Outlier != nil {
		ms.Outlier = &zScoreOutlier{
			meanPower:   mf.Outlier.MeanPower,
			stdPower:    mf.Outlier.StdPower,
			meanVoltDev: mf.Outlier.MeanVoltDev,
			stdVoltDev:  mf.Outlier.StdVoltDev,
			threshold:   mf.Outlier.ZThreshold,
			loadBias:    mf.Outlier.LoadFlagBias,
		}
	}
	if mf.Daily != nil {
		ms.Daily = &linearDaily{
			intercept: mf.Daily.Intercept,
			coefLoad:  mf.Daily.CoefLoad,
			coefVolt:  mf.Daily.CoefVoltage,
		}
	}
	if mf.Forecast != nil {
		ms.Forecast = &linearForecast{
			intercept: mf.Forecast.Intercept,
			weights:   append([]float64(nil), mf.Forecast.Weights...),
		}
	}
	return ms, nil
}

// zScoreOutlier: pengganti isolation forest hasil distilasi — bacaan
// dianggap outlier jika z-score gabungan power + deviasi tegangan
// melewati threshold. Stateless, aman dipakai concurrent.
type zScoreOutlier struct {
	meanPower, stdPower     float64
	meanVoltDev, stdVoltDev float64
	threshold               float64
	loadBias                float64
}

func (m *zScoreOutlier) IsOutlier(f OutlierFeatures) (bool, error) {
	if m.stdPower <= 0 || m.stdVoltDev <= 0 {
		return false, fmt.Errorf("outlier model: non-positive std")
	}
	zp := math.Abs(f.Power-m.meanPower) / m.stdPower
	zv := math.Abs(f.VoltageDeviation-m.meanVoltDev) / m.stdVoltDev
	z := math.Max(zp, zv)
	if f.LoadFlag == 1 {
		// beban besar (pompa) menaikkan power secara sah
		z -= m.loadBias
	}
	return z >= m.threshold, nil
}

type linearDaily struct {
	intercept, coefLoad, coefVolt float64
}

func (m *linearDaily) PredictDailyAverage(f DailyFeatures) (float64, error) {
	v := m.intercept + m.coefLoad*f.AvgLoadFlag + m.coefVolt*f.AvgVoltage
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("daily model: non-finite prediction")
	}
	return v, nil
}

type linearForecast struct {
	intercept float64
	weights   []float64
}

func (m *linearForecast) PredictNext(recent []float64) (float64, error) {
	if len(recent) < len(m.weights) {
		return 0, fmt.Errorf("forecast model: need %d samples, got %d", len(m.weights), len(recent))
	}
	v := m.intercept
	tail := recent[len(recent)-len(m.weights):]
	for i, w := range m.weights {
		v += w * tail[i]
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("forecast model: non-finite prediction")
	}
	return v, nil
}
