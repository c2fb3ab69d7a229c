// internal/analytics/reading.go
// Tipe data bacaan meter untuk engine analitik

package analytics

import "time"

// EnergyKind menandai konvensi field Energy pada sebuah Reading.
// Produsen telemetry tidak seragam: sebagian kirim kWh kumulatif sejak
// meter dipasang, sebagian kirim energi per interval baca.
type EnergyKind string

const (
	EnergyCumulative EnergyKind = "cumulative"
	EnergyInterval   EnergyKind = "interval"
)

// Reading adalah satu sampel telemetry. Immutable setelah dibuat;
// ownership slice window ada di pemanggil, engine hanya membaca.
type Reading struct {
	MeterID     string
	Timestamp   time.Time
	Voltage     float64 // V
	Current     float64 // A, opsional (0 jika tidak ada)
	Power       float64 // kW, active power
	Energy      float64 // kWh, lihat EnergyKind
	EnergyKind  EnergyKind
	PowerFactor float64 // 0..1
	Frequency   float64 // Hz
	LoadFlag    int     // 0/1, pompa/beban besar aktif
	DayOfMonth  int     // 1..31
}

// intervalEnergies menormalkan window ke kWh per interval. Bacaan
// bertanda EnergyCumulative di-diff terhadap register sebelumnya
// (bacaan pertama 0; register mundur = reset, dihitung 0 supaya total
// tidak meledak). Bacaan interval dipakai apa adanya.
func intervalEnergies(window []Reading) []float64 {
	out := make([]float64, len(window))
	var lastRegister float64
	var seen bool
	for i, r := range window {
		if r.EnergyKind != EnergyCumulative {
			out[i] = r.Energy
			continue
		}
		if seen && r.Energy >= lastRegister {
			out[i] = r.Energy - lastRegister
		}
		lastRegister = r.Energy
		seen = true
	}
	return out
}
