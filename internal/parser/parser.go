// internal/parser/parser.go
// Parser universal payload meter: beberapa format pabrikan + generic JSON

package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gram-meter/internal/analytics"
	"gram-meter/internal/util"
)

// Manufacturer yang didukung.
const (
	ManufacturerTataPower = "Tata Power"
	ManufacturerBESCOM    = "BESCOM"
	ManufacturerSecure    = "Secure Meters"
	ManufacturerGeneric   = "Generic"
)

// Parsed adalah hasil normalisasi satu payload.
type Parsed struct {
	Reading      analytics.Reading
	Manufacturer string
}

// Parse menerima raw JSON dan mendeteksi formatnya dari field penanda.
// Field energy dari pabrikan di-tag kumulatif (register import meter);
// format generic default ke kumulatif juga.
func Parse(raw []byte) (Parsed, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return Parsed{}, util.BadInput("invalid json payload: " + err.Error())
	}
	return ParseMap(m)
}

// ParseMap versi yang menerima map hasil decode di tempat lain.
func ParseMap(m map[string]any) (Parsed, error) {
	switch {
	case has(m, "device_id") && has(m, "reading_time"):
		return parseTataPower(m)
	case has(m, "meter_number"):
		return parseBESCOM(m)
	case has(m, "serial_no") && has(m, "unix_time"):
		return parseSecure(m)
	default:
		return parseGeneric(m)
	}
}

func parseTataPower(m map[string]any) (Parsed, error) {
	ts, err := isoTime(str(m, "reading_time"))
	if err != nil {
		return Parsed{}, util.BadInput("tata power: bad reading_time")
	}
	r := analytics.Reading{
		MeterID:     str(m, "device_id"),
		Timestamp:   ts,
		Voltage:     num(m, "volt", 230),
		Current:     num(m, "amp", 0),
		Power:       num(m, "active_power_w", 0) / 1000, // W -> kW
		Energy:      num(m, "cumulative_kwh", 0),
		EnergyKind:  analytics.EnergyCumulative,
		PowerFactor: num(m, "pf", 0.95),
		Frequency:   num(m, "freq_hz", 50),
	}
	r.DayOfMonth = ts.Day()
	return Parsed{Reading: r, Manufacturer: ManufacturerTataPower}, nil
}

func parseBESCOM(m map[string]any) (Parsed, error) {
	ts, err := time.Parse("2006-01-02 15:04:05", str(m, "timestamp"))
	if err != nil {
		return Parsed{}, util.BadInput("bescom: bad timestamp")
	}
	r := analytics.Reading{
		MeterID:     str(m, "meter_number"),
		Timestamp:   ts,
		Voltage:     num(m, "voltage_v", 230),
		Current:     num(m, "current_a", 0),
		Power:       num(m, "power_w", 0) / 1000,
		Energy:      num(m, "total_energy_kwh", 0),
		EnergyKind:  analytics.EnergyCumulative,
		PowerFactor: num(m, "power_factor", 0.95),
		Frequency:   num(m, "frequency", 50),
	}
	r.DayOfMonth = ts.Day()
	return Parsed{Reading: r, Manufacturer: ManufacturerBESCOM}, nil
}

func parseSecure(m map[string]any) (Parsed, error) {
	unix := num(m, "unix_time", 0)
	if unix <= 0 {
		return Parsed{}, util.BadInput("secure meters: bad unix_time")
	}
	ts := time.Unix(int64(unix), 0).UTC()
	r := analytics.Reading{
		MeterID:     str(m, "serial_no"),
		Timestamp:   ts,
		Voltage:     num(m, "v_phase_a", 230),
		Current:     num(m, "i_phase_a", 0),
		Power:       num(m, "active_power", 0),
		Energy:      num(m, "kwh_import", 0),
		EnergyKind:  analytics.EnergyCumulative,
		PowerFactor: num(m, "pf", 0.95),
		Frequency:   num(m, "frequency", 50),
	}
	r.DayOfMonth = ts.Day()
	return Parsed{Reading: r, Manufacturer: ManufacturerSecure}, nil
}

// parseGeneric coba nama field umum, termasuk format virtual meter
// (Global_active_power, Voltage, Irrigation_Pump, Energy_kWh, ...).
func parseGeneric(m map[string]any) (Parsed, error) {
	meterID := firstStr(m, "meter_id", "id", "device_id")
	if meterID == "" {
		return Parsed{}, util.BadInput("generic: missing meter id")
	}

	ts := time.Now().UTC()
	if v := firstStr(m, "timestamp", "time", "datetime"); v != "" {
		if parsed, err := isoTime(v); err == nil {
			ts = parsed
		}
	}

	r := analytics.Reading{
		MeterID:     meterID,
		Timestamp:   ts,
		Voltage:     firstNum(m, 230, "voltage", "v", "V", "Voltage"),
		Current:     firstNum(m, 0, "current", "i", "I", "amp"),
		Power:       firstNum(m, 0, "power", "p", "P", "Global_active_power"),
		Energy:      firstNum(m, 0, "energy", "kwh", "kWh", "Energy_kWh"),
		EnergyKind:  analytics.EnergyCumulative,
		PowerFactor: firstNum(m, 0.95, "power_factor", "pf", "PF"),
		Frequency:   firstNum(m, 50, "frequency", "freq", "hz"),
	}
	if lf := firstNum(m, 0, "load_flag", "pump", "Irrigation_Pump"); lf >= 1 {
		r.LoadFlag = 1
	}
	r.DayOfMonth = ts.Day()
	if d := firstNum(m, 0, "day_of_month", "Day_of_Month"); d >= 1 && d <= 31 {
		r.DayOfMonth = int(d)
	}
	return Parsed{Reading: r, Manufacturer: ManufacturerGeneric}, nil
}

// ---- helpers ----

func has(m map[string]any, k string) bool { _, ok := m[k]; return ok }

func str(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}

func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := str(m, k); v != "" {
			return v
		}
	}
	return ""
}

func num(m map[string]any, k string, def float64) float64 {
	switch v := m[k].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return def
}

func firstNum(m map[string]any, def float64, keys ...string) float64 {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return num(m, k, def)
		}
	}
	return def
}

func isoTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
