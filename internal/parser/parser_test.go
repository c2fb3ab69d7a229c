// internal/parser/parser_test.go

package parser

import (
	"testing"

	"gram-meter/internal/analytics"
)

func TestParseTataPower(t *testing.T) {
	raw := []byte(`{
		"device_id": "TP-SM-100-42",
		"reading_time": "2025-11-12T06:30:00Z",
		"volt": 228.5,
		"amp": 4.2,
		"active_power_w": 950,
		"cumulative_kwh": 312.7,
		"pf": 0.93
	}`)
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Manufacturer != ManufacturerTataPower {
		t.Errorf("manufacturer = %s", p.Manufacturer)
	}
	if p.Reading.MeterID != "TP-SM-100-42" {
		t.Errorf("meter id = %s", p.Reading.MeterID)
	}
	// active_power_w dikonversi W -> kW
	if p.Reading.Power < 0.949 || p.Reading.Power > 0.951 {
		t.Errorf("power = %v, want 0.95 kW", p.Reading.Power)
	}
	if p.Reading.EnergyKind != analytics.EnergyCumulative {
		t.Errorf("energy kind = %s", p.Reading.EnergyKind)
	}
	if p.Reading.DayOfMonth != 12 {
		t.Errorf("day of month = %d", p.Reading.DayOfMonth)
	}
}

func TestParseBESCOM(t *testing.T) {
	raw := []byte(`{
		"meter_number": "BES-9001",
		"timestamp": "2025-11-12 06:30:00",
		"voltage_v": 231.0,
		"current_a": 2.0,
		"power_w": 460,
		"total_energy_kwh": 120.5
	}`)
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Manufacturer != ManufacturerBESCOM {
		t.Errorf("manufacturer = %s", p.Manufacturer)
	}
	if p.Reading.Energy != 120.5 {
		t.Errorf("energy = %v", p.Reading.Energy)
	}
}

func TestParseSecureMeters(t *testing.T) {
	raw := []byte(`{
		"serial_no": "SM-300-7",
		"unix_time": 1762929000,
		"v_phase_a": 229.0,
		"i_phase_a": 3.1,
		"active_power": 0.7,
		"kwh_import": 88.0,
		"pf": 0.91,
		"frequency": 49.9
	}`)
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Manufacturer != ManufacturerSecure {
		t.Errorf("manufacturer = %s", p.Manufacturer)
	}
	if p.Reading.PowerFactor != 0.91 {
		t.Errorf("pf = %v", p.Reading.PowerFactor)
	}
}

// Payload virtual meter (format simulator) harus masuk jalur generic.
func TestParseVirtualMeterPayload(t *testing.T) {
	raw := []byte(`{
		"meter_id": "VM-01",
		"timestamp": "2025-11-12T02:00:00Z",
		"Global_active_power": 4.8,
		"Voltage": 231.4,
		"Irrigation_Pump": 1,
		"Voltage_Stability": 1.4,
		"Energy_kWh": 254.9,
		"Day_of_Month": 12
	}`)
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Manufacturer != ManufacturerGeneric {
		t.Errorf("manufacturer = %s", p.Manufacturer)
	}
	if p.Reading.Power != 4.8 || p.Reading.LoadFlag != 1 {
		t.Errorf("power/flag = %v/%d", p.Reading.Power, p.Reading.LoadFlag)
	}
	if p.Reading.Energy != 254.9 || p.Reading.DayOfMonth != 12 {
		t.Errorf("energy/day = %v/%d", p.Reading.Energy, p.Reading.DayOfMonth)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not-json")); err == nil {
		t.Fatal("expected error for non-json payload")
	}
	// generic tanpa meter id apapun
	if _, err := Parse([]byte(`{"voltage": 230}`)); err == nil {
		t.Fatal("expected error for payload without meter id")
	}
}
