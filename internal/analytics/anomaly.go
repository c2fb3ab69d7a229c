// internal/analytics/anomaly.go
// Klasifikasi anomali bacaan meter: rule deterministik dulu, model belakangan

package analytics

import "fmt"

// Severity level alert, urut dari paling ringan.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Jenis anomali (dipakai juga sebagai alert type di storage).
const (
	AnomalyVoltageSurge = "voltage_surge"
	AnomalyVoltageDrop  = "voltage_drop"
	AnomalyOvercurrent  = "overcurrent"
	AnomalyPhantomLoad  = "phantom_load"
	AnomalyOutlier      = "usage_outlier"
	AnomalyNone         = "none"
)

// Thresholds untuk rule deterministik. Nilai default mengikuti standar
// listrik India (nominal 230V) dan rating MCB rumah tangga 50A.
type Thresholds struct {
	VoltageHigh     float64 // V, di atas ini = surge
	VoltageLow      float64 // V, di bawah ini = brownout
	CurrentMax      float64 // A, rating maksimum
	NightPowerKW    float64 // kW, ambang phantom load malam hari
	NightStartHour  int     // jam lokal awal window malam (inklusif)
	NightEndHour    int     // jam lokal akhir window malam (inklusif)
	NominalVoltage  float64 // V
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		VoltageHigh:    285,
		VoltageLow:     180,
		CurrentMax:     50,
		NightPowerKW:   1.0,
		NightStartHour: 0,
		NightEndHour:   5,
		NominalVoltage: 230,
	}
}

// AnomalyVerdict adalah hasil klasifikasi satu bacaan.
type AnomalyVerdict struct {
	IsAnomaly bool   `json:"is_anomaly"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// ClassifyAnomaly mengevaluasi satu Reading. Fungsi murni, tanpa side
// effect; caller yang memutuskan persist/alert.
//
// Urutan keputusan (first match wins):
//  1. voltage > high  -> critical surge
//  2. voltage < low   -> warning brownout
//  3. current > max   -> critical overcurrent
//  4. power di atas ambang pada jam malam -> warning phantom load
//  5. model outlier (kalau ada) -> warning
//  6. normal
//
// Rule 1-4 tidak pernah dilewati gara-gara model; model hanya penjaring
// tambahan untuk pola yang lolos rule tetap.
func (e *Engine) ClassifyAnomaly(r Reading) AnomalyVerdict {
	t := e.thresholds

	if r.Voltage > t.VoltageHigh {
		return AnomalyVerdict{
			IsAnomaly: true,
			Type:      AnomalyVoltageSurge,
			Severity:  SeverityCritical,
			Message:   fmt.Sprintf("voltage surge detected (%.1fV) - risk of equipment damage", r.Voltage),
		}
	}
	if r.Voltage < t.VoltageLow {
		return AnomalyVerdict{
			IsAnomaly: true,
			Type:      AnomalyVoltageDrop,
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf("voltage drop detected (%.1fV) - brownout condition", r.Voltage),
		}
	}
	if r.Current > t.CurrentMax {
		return AnomalyVerdict{
			IsAnomaly: true,
			Type:      AnomalyOvercurrent,
			Severity:  SeverityCritical,
			Message:   fmt.Sprintf("overcurrent detected (%.1fA) - breaker should trip", r.Current),
		}
	}
	hour := r.Timestamp.Hour()
	if r.Power > t.NightPowerKW && hour >= t.NightStartHour && hour <= t.NightEndHour {
		return AnomalyVerdict{
			IsAnomaly: true,
			Type:      AnomalyPhantomLoad,
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf("phantom load detected (%.2fkW at %02d:00) - check for leakage", r.Power, hour),
		}
	}

	if e.models.Outlier != nil {
		f := OutlierFeatures{
			Power:            r.Power,
			Voltage:          r.Voltage,
			LoadFlag:         r.LoadFlag,
			VoltageDeviation: abs(t.NominalVoltage - r.Voltage),
		}
		// error model ditelan: fallback = normal, sesuai kontrak
		if isOut, err := e.models.Outlier.IsOutlier(f); err == nil && isOut {
			return AnomalyVerdict{
				IsAnomaly: true,
				Type:      AnomalyOutlier,
				Severity:  SeverityWarning,
				Message:   "unusual usage pattern detected by model",
			}
		}
	}

	return AnomalyVerdict{
		IsAnomaly: false,
		Type:      AnomalyNone,
		Severity:  SeverityInfo,
		Message:   "all parameters within range",
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
