// internal/analytics/anomaly_test.go

package analytics

import (
	"errors"
	"testing"
	"time"
)

func readingAt(hour int) Reading {
	return Reading{
		MeterID:     "MTR-001",
		Timestamp:   time.Date(2025, 11, 12, hour, 0, 0, 0, time.UTC),
		Voltage:     230,
		Current:     10,
		Power:       0.5,
		PowerFactor: 0.95,
		Frequency:   50,
	}
}

// outlier stub yang selalu bilang outlier — dipakai untuk memastikan
// rule deterministik tetap menang.
type alwaysOutlier struct{}

func (alwaysOutlier) IsOutlier(OutlierFeatures) (bool, error) { return true, nil }

type failingOutlier struct{}

func (failingOutlier) IsOutlier(OutlierFeatures) (bool, error) {
	return false, errors.New("model exploded")
}

func TestClassifyAnomalyVoltageZero(t *testing.T) {
	e := NewEngine()
	r := readingAt(14)
	r.Voltage = 0

	v := e.ClassifyAnomaly(r)
	if !v.IsAnomaly {
		t.Fatal("voltage=0 must be anomalous")
	}
	// 0 < 180 -> jalur voltage drop
	if v.Type != AnomalyVoltageDrop || v.Severity != SeverityWarning {
		t.Errorf("got type=%s severity=%s, want voltage_drop/warning", v.Type, v.Severity)
	}
}

func TestClassifyAnomalyNormalAfternoon(t *testing.T) {
	e := NewEngine()
	v := e.ClassifyAnomaly(readingAt(14))
	if v.IsAnomaly {
		t.Fatalf("normal reading flagged: %+v", v)
	}
	if v.Severity != SeverityInfo {
		t.Errorf("severity = %s, want info", v.Severity)
	}
}

func TestClassifyAnomalyRuleOrder(t *testing.T) {
	// model bilang outlier, tapi surge deterministik harus menang
	e := NewEngine(WithModels(ModelSet{Outlier: alwaysOutlier{}}))

	r := readingAt(14)
	r.Voltage = 300
	v := e.ClassifyAnomaly(r)
	if v.Type != AnomalyVoltageSurge || v.Severity != SeverityCritical {
		t.Errorf("surge must win over model: %+v", v)
	}

	r = readingAt(14)
	r.Current = 60
	v = e.ClassifyAnomaly(r)
	if v.Type != AnomalyOvercurrent || v.Severity != SeverityCritical {
		t.Errorf("overcurrent must win over model: %+v", v)
	}
}

func TestClassifyAnomalyPhantomLoad(t *testing.T) {
	e := NewEngine()

	r := readingAt(3)
	r.Power = 2.0
	v := e.ClassifyAnomaly(r)
	if v.Type != AnomalyPhantomLoad || v.Severity != SeverityWarning {
		t.Errorf("night load must be phantom: %+v", v)
	}

	// jam 14 bukan window malam -> normal
	r = readingAt(14)
	r.Power = 2.0
	if v := e.ClassifyAnomaly(r); v.IsAnomaly {
		t.Errorf("afternoon load flagged as phantom: %+v", v)
	}
}

func TestClassifyAnomalyModelFallback(t *testing.T) {
	e := NewEngine(WithModels(ModelSet{Outlier: alwaysOutlier{}}))
	v := e.ClassifyAnomaly(readingAt(14))
	if v.Type != AnomalyOutlier || v.Severity != SeverityWarning {
		t.Errorf("model outlier expected: %+v", v)
	}

	// error model ditelan, hasil normal
	e = NewEngine(WithModels(ModelSet{Outlier: failingOutlier{}}))
	if v := e.ClassifyAnomaly(readingAt(14)); v.IsAnomaly {
		t.Errorf("model error must degrade to normal: %+v", v)
	}
}

// Dua kali panggil dengan input sama harus identik (tanpa state tersembunyi).
func TestClassifyAnomalyIdempotent(t *testing.T) {
	e := NewEngine()
	r := readingAt(3)
	r.Power = 2.0
	a := e.ClassifyAnomaly(r)
	b := e.ClassifyAnomaly(r)
	if a != b {
		t.Errorf("verdicts differ: %+v vs %+v", a, b)
	}
}
