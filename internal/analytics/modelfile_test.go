// internal/analytics/modelfile_test.go

package analytics

import (
	"os"
	"path/filepath"
	"testing"

	"gram-meter/internal/util"
)

func TestLoadModelSetPartialSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.json")
	payload := `{
		"daily": {"intercept": 2.0, "coef_load": 5.0, "coef_voltage": 0.01},
		"forecast": {"intercept": 0.1, "weights": [0.0,0.0,0.0,0.0,0.0,0.0,0.0,0.0,0.0,1.0]}
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	ms, err := LoadModelSet(path)
	if err != nil {
		t.Fatalf("LoadModelSet: %v", err)
	}
	if ms.Daily == nil || ms.Forecast == nil {
		t.Fatal("daily/forecast slots must be loaded")
	}
	if ms.Outlier != nil {
		t.Fatal("outlier section absent, slot must stay nil")
	}

	// regresi linear: 2.0 + 5.0*0.5 + 0.01*230 = 6.8
	got, err := ms.Daily.PredictDailyAverage(DailyFeatures{AvgLoadFlag: 0.5, AvgVoltage: 230})
	if err != nil {
		t.Fatal(err)
	}
	if got < 6.79 || got > 6.81 {
		t.Errorf("daily prediction = %v, want 6.8", got)
	}

	// bobot [0..0,1] -> prediksi = nilai terakhir
	next, err := ms.Forecast.PredictNext([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 4.2})
	if err != nil {
		t.Fatal(err)
	}
	if next < 4.29 || next > 4.31 {
		t.Errorf("forecast prediction = %v, want 4.3", next)
	}
}

func TestLoadModelSetMissingFile(t *testing.T) {
	_, err := LoadModelSet("/nonexistent/models.json")
	if !util.IsCode(err, "model_unavailable") {
		t.Fatalf("expected model_unavailable, got %v", err)
	}
}

func TestLoadModelSetCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	if err := os.WriteFile(path, []byte(`{"daily": `), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadModelSet(path)
	if !util.IsCode(err, "model_unavailable") {
		t.Fatalf("expected model_unavailable, got %v", err)
	}
}
