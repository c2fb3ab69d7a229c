// internal/ingest/pipeline.go
// Pipeline per-pesan: parse -> klasifikasi anomali -> persist -> notifikasi

package ingest

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"

	"gram-meter/internal/analytics"
	"gram-meter/internal/metrics"
	"gram-meter/internal/notify"
	"gram-meter/internal/parser"
	"gram-meter/internal/repositories/mysql"
	"gram-meter/internal/util"
)

type Pipeline struct {
	Engine   *analytics.Engine
	Readings *mysql.ReadingsRepo
	Meters   *mysql.MetersRepo
	Alerts   *mysql.AlertsRepo
	Notifier notify.Notifier
	Clock    util.Clock

	// mu melindungi peta state per-meter; lock per meter menserialkan
	// pemrosesan bacaan satu meter supaya delta interval konsisten.
	mu         sync.Mutex
	meterLocks map[string]*sync.Mutex
	lastEnergy map[string]float64
}

func NewPipeline(engine *analytics.Engine, readings *mysql.ReadingsRepo, meters *mysql.MetersRepo, alerts *mysql.AlertsRepo, notifier notify.Notifier) *Pipeline {
	return &Pipeline{
		Engine:     engine,
		Readings:   readings,
		Meters:     meters,
		Alerts:     alerts,
		Notifier:   notifier,
		Clock:      util.RealClock{},
		meterLocks: map[string]*sync.Mutex{},
		lastEnergy: map[string]float64{},
	}
}

func (p *Pipeline) lockFor(meterID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.meterLocks[meterID]
	if !ok {
		l = &sync.Mutex{}
		p.meterLocks[meterID] = l
	}
	return l
}

// HandleRaw memproses satu payload telemetry mentah. Payload rusak
// atau meter tak terdaftar di-drop dengan metric; error DB dikembalikan
// supaya consumer bisa retry.
func (p *Pipeline) HandleRaw(ctx context.Context, raw []byte) error {
	parsed, err := parser.Parse(raw)
	if err != nil {
		metrics.ReadingsRejected.WithLabelValues("parse_error").Inc()
		log.Printf("[WARN] ingest: drop payload: %v", err)
		return nil
	}
	return p.Handle(ctx, parsed.Reading)
}

func (p *Pipeline) Handle(ctx context.Context, r analytics.Reading) error {
	if r.MeterID == "" {
		metrics.ReadingsRejected.WithLabelValues("missing_meter_id").Inc()
		return nil
	}
	if _, err := p.Meters.Get(ctx, r.MeterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.ReadingsRejected.WithLabelValues("unknown_meter").Inc()
			log.Printf("[WARN] ingest: unknown meter %s, dropping reading", r.MeterID)
			return nil
		}
		return err
	}

	l := p.lockFor(r.MeterID)
	l.Lock()
	defer l.Unlock()

	row := p.toRow(ctx, r)
	if err := p.Readings.Insert(ctx, row); err != nil {
		return err
	}
	metrics.ReadingsIngested.WithLabelValues(r.MeterID).Inc()
	if lag := p.Clock.Now().Sub(r.Timestamp); lag > 0 {
		metrics.IngestLag.Observe(lag.Seconds())
	}

	verdict := p.Engine.ClassifyAnomaly(r)
	if !verdict.IsAnomaly {
		return nil
	}
	metrics.AnomaliesDetected.WithLabelValues(verdict.Type, verdict.Severity).Inc()
	alert := mysql.AlertRow{
		AlertID:   util.NewID(),
		MeterID:   r.MeterID,
		AlertType: verdict.Type,
		Severity:  verdict.Severity,
		Message:   verdict.Message,
		CreatedAt: p.Clock.Now().UTC(),
	}
	if err := p.Alerts.Insert(ctx, alert); err != nil {
		return err
	}
	if p.Notifier != nil {
		_ = p.Notifier.Send(ctx, notify.Alert{
			AlertID:  alert.AlertID,
			MeterID:  alert.MeterID,
			Type:     alert.AlertType,
			Severity: alert.Severity,
			Message:  alert.Message,
		})
		metrics.NotificationsSent.WithLabelValues(alert.Severity).Inc()
	}
	return nil
}

// toRow menurunkan interval_kwh dari register kumulatif. Register yang
// mundur (reset meter / ganti unit) menghasilkan interval 0, bukan
// negatif. Untuk produsen yang mengirim energi interval, register
// kumulatif direkonstruksi dari akumulasi.
func (p *Pipeline) toRow(ctx context.Context, r analytics.Reading) mysql.ReadingRow {
	row := mysql.ReadingRow{
		MeterID:     r.MeterID,
		TS:          r.Timestamp.UTC(),
		Voltage:     r.Voltage,
		Current:     r.Current,
		Power:       r.Power,
		PowerFactor: r.PowerFactor,
		Frequency:   r.Frequency,
		LoadFlag:    r.LoadFlag,
	}
	if row.TS.IsZero() {
		row.TS = p.Clock.Now().UTC()
	}

	last, seen := p.lastSeenEnergy(ctx, r.MeterID)
	switch r.EnergyKind {
	case analytics.EnergyInterval:
		row.IntervalKWh = r.Energy
		row.EnergyKWh = last + r.Energy
	default: // kumulatif
		row.EnergyKWh = r.Energy
		if seen && r.Energy >= last {
			row.IntervalKWh = r.Energy - last
		}
	}
	p.mu.Lock()
	p.lastEnergy[r.MeterID] = row.EnergyKWh
	p.mu.Unlock()
	return row
}

// lastSeenEnergy baca cache in-memory dulu; cold start ambil dari DB.
func (p *Pipeline) lastSeenEnergy(ctx context.Context, meterID string) (float64, bool) {
	p.mu.Lock()
	v, ok := p.lastEnergy[meterID]
	p.mu.Unlock()
	if ok {
		return v, true
	}
	rows, err := p.Readings.LatestN(ctx, meterID, 1)
	if err != nil || len(rows) == 0 {
		return 0, false
	}
	return rows[0].EnergyKWh, true
}
