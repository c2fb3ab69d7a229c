// internal/analytics/projection_test.go

package analytics

import (
	"errors"
	"math"
	"testing"

	"gram-meter/internal/util"
)

type fixedDaily struct{ v float64 }

func (m fixedDaily) PredictDailyAverage(DailyFeatures) (float64, error) { return m.v, nil }

type failingDaily struct{}

func (failingDaily) PredictDailyAverage(DailyFeatures) (float64, error) {
	return 0, errors.New("regressor unavailable")
}

func TestProjectMonthlyMonthComplete(t *testing.T) {
	e := NewEngine()
	res, err := e.ProjectMonthly(ProjectionInput{DayOfMonth: 30, KWhSoFar: 200, AvgVoltage: 230})
	if err != nil {
		t.Fatalf("ProjectMonthly: %v", err)
	}
	if res.ProjectedTotalKWh != 200 {
		t.Errorf("terminal case: got %v, want 200", res.ProjectedTotalKWh)
	}
	if res.Source != "month_complete" {
		t.Errorf("source = %s, want month_complete", res.Source)
	}
}

func TestProjectMonthlyLinearFallback(t *testing.T) {
	e := NewEngine() // tanpa model
	res, err := e.ProjectMonthly(ProjectionInput{DayOfMonth: 15, KWhSoFar: 150, AvgVoltage: 230})
	if err != nil {
		t.Fatalf("ProjectMonthly: %v", err)
	}
	// daily_avg = 150/15 = 10, sisa 15 hari -> 150 + 150 = 300
	if res.ProjectedTotalKWh != 300 {
		t.Errorf("fallback projection = %v, want 300", res.ProjectedTotalKWh)
	}
	if res.Source != "linear_fallback" {
		t.Errorf("source = %s, want linear_fallback", res.Source)
	}
	// invariant: projected >= kwh_so_far selama masih ada sisa hari
	if res.ProjectedTotalKWh < res.KWhSoFar {
		t.Error("projected below consumed-so-far")
	}
}

func TestProjectMonthlyModelPath(t *testing.T) {
	e := NewEngine(WithModels(ModelSet{Daily: fixedDaily{v: 8}}))
	res, err := e.ProjectMonthly(ProjectionInput{DayOfMonth: 10, KWhSoFar: 100, AvgVoltage: 230})
	if err != nil {
		t.Fatalf("ProjectMonthly: %v", err)
	}
	// 100 + 8*20 = 260
	if math.Abs(res.ProjectedTotalKWh-260) > 1e-9 {
		t.Errorf("model projection = %v, want 260", res.ProjectedTotalKWh)
	}
	if res.Source != "model" {
		t.Errorf("source = %s, want model", res.Source)
	}
}

// Kegagalan model tidak boleh menjalar; jatuh ke linear.
func TestProjectMonthlyModelFailureFallsBack(t *testing.T) {
	e := NewEngine(WithModels(ModelSet{Daily: failingDaily{}}))
	res, err := e.ProjectMonthly(ProjectionInput{DayOfMonth: 15, KWhSoFar: 150, AvgVoltage: 230})
	if err != nil {
		t.Fatalf("model failure must not propagate: %v", err)
	}
	if res.ProjectedTotalKWh != 300 || res.Source != "linear_fallback" {
		t.Errorf("expected linear fallback 300, got %v (%s)", res.ProjectedTotalKWh, res.Source)
	}
}

func TestProjectMonthlyInvalidInput(t *testing.T) {
	e := NewEngine()
	if _, err := e.ProjectMonthly(ProjectionInput{DayOfMonth: 0, KWhSoFar: 10}); !util.IsCode(err, "bad_input") {
		t.Errorf("day 0 must be bad_input, got %v", err)
	}
	if _, err := e.ProjectMonthly(ProjectionInput{DayOfMonth: 32, KWhSoFar: 10}); !util.IsCode(err, "bad_input") {
		t.Errorf("day 32 must be bad_input, got %v", err)
	}
	if _, err := e.ProjectMonthly(ProjectionInput{DayOfMonth: 10, KWhSoFar: -1}); !util.IsCode(err, "bad_input") {
		t.Errorf("negative kwh must be bad_input, got %v", err)
	}
}

func TestEfficiencyGradeBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{96, "A+"}, {95, "A+"}, {92, "A"}, {85, "B"}, {72, "C"}, {65, "D"}, {10, "F"},
	}
	for _, c := range cases {
		if got := EfficiencyGrade(c.score); got != c.want {
			t.Errorf("EfficiencyGrade(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}
