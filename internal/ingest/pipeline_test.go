// internal/ingest/pipeline_test.go

package ingest

import (
	"context"
	"testing"
	"time"

	"gram-meter/internal/analytics"
	"gram-meter/internal/util"
)

type frozenClock struct{ t time.Time }

func (c frozenClock) Now() time.Time { return c.t }

func newTestPipeline() *Pipeline {
	p := NewPipeline(analytics.NewEngine(), nil, nil, nil, nil)
	p.Clock = frozenClock{t: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}
	return p
}

// Register kumulatif: delta interval = selisih bacaan berurutan.
func TestToRowCumulativeDelta(t *testing.T) {
	p := newTestPipeline()
	ctx := context.Background()

	r1 := analytics.Reading{MeterID: "MTR-1", Timestamp: time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC), Energy: 120.0, EnergyKind: analytics.EnergyCumulative}
	row1 := p.toRow(ctx, r1)
	if row1.EnergyKWh != 120.0 {
		t.Fatalf("EnergyKWh = %v, want 120", row1.EnergyKWh)
	}
	// bacaan pertama: belum ada pembanding, interval 0
	if row1.IntervalKWh != 0 {
		t.Fatalf("first IntervalKWh = %v, want 0", row1.IntervalKWh)
	}

	r2 := r1
	r2.Energy = 121.5
	row2 := p.toRow(ctx, r2)
	if row2.IntervalKWh != 1.5 {
		t.Fatalf("IntervalKWh = %v, want 1.5", row2.IntervalKWh)
	}
}

// Register mundur (reset meter) tidak boleh menghasilkan interval negatif.
func TestToRowRegisterReset(t *testing.T) {
	p := newTestPipeline()
	ctx := context.Background()

	p.toRow(ctx, analytics.Reading{MeterID: "MTR-1", Energy: 500.0, EnergyKind: analytics.EnergyCumulative})
	row := p.toRow(ctx, analytics.Reading{MeterID: "MTR-1", Energy: 2.0, EnergyKind: analytics.EnergyCumulative})
	if row.IntervalKWh != 0 {
		t.Fatalf("IntervalKWh after reset = %v, want 0", row.IntervalKWh)
	}
	if row.EnergyKWh != 2.0 {
		t.Fatalf("EnergyKWh = %v, want 2.0", row.EnergyKWh)
	}
}

// Produsen interval: register kumulatif direkonstruksi dari akumulasi.
func TestToRowIntervalAccumulates(t *testing.T) {
	p := newTestPipeline()
	ctx := context.Background()

	row1 := p.toRow(ctx, analytics.Reading{MeterID: "MTR-2", Energy: 0.4, EnergyKind: analytics.EnergyInterval})
	if row1.IntervalKWh != 0.4 || row1.EnergyKWh != 0.4 {
		t.Fatalf("row1 = %+v", row1)
	}
	row2 := p.toRow(ctx, analytics.Reading{MeterID: "MTR-2", Energy: 0.6, EnergyKind: analytics.EnergyInterval})
	if row2.IntervalKWh != 0.6 {
		t.Fatalf("IntervalKWh = %v, want 0.6", row2.IntervalKWh)
	}
	if row2.EnergyKWh != 1.0 {
		t.Fatalf("EnergyKWh = %v, want 1.0", row2.EnergyKWh)
	}
}

// Timestamp kosong diisi wall clock pipeline.
func TestToRowZeroTimestamp(t *testing.T) {
	p := newTestPipeline()
	row := p.toRow(context.Background(), analytics.Reading{MeterID: "MTR-3", Energy: 1, EnergyKind: analytics.EnergyCumulative})
	want := p.Clock.Now().UTC()
	if !row.TS.Equal(want) {
		t.Fatalf("TS = %v, want %v", row.TS, want)
	}
}

// lockFor mengembalikan mutex yang sama untuk meter yang sama.
func TestLockForStable(t *testing.T) {
	p := newTestPipeline()
	if p.lockFor("A") != p.lockFor("A") {
		t.Fatal("expected same mutex for same meter")
	}
	if p.lockFor("A") == p.lockFor("B") {
		t.Fatal("expected distinct mutex per meter")
	}
}

var _ util.Clock = frozenClock{}
