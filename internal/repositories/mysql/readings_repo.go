// internal/repositories/mysql/readings_repo.go
// Repo untuk telemetry bacaan meter

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type ReadingsRepo struct{ DB *sql.DB }

// ReadingRow: satu bacaan tersimpan. EnergyKWh = register kumulatif
// meter; IntervalKWh = delta sejak bacaan sebelumnya (dihitung di
// pipeline ingest, bukan di DB).
type ReadingRow struct {
	ID          int64
	MeterID     string
	TS          time.Time
	Voltage     float64
	Current     float64
	Power       float64
	EnergyKWh   float64
	IntervalKWh float64
	PowerFactor float64
	Frequency   float64
	LoadFlag    int
}

type ReadingFilter struct {
	MeterID string     // wajib
	Start   *time.Time // opsional, inklusif
	End     *time.Time // opsional, eksklusif
	Limit   int
	Order   string // ""|"asc"|"desc" (default asc)
}

func (r *ReadingsRepo) Insert(ctx context.Context, row ReadingRow) error {
	if r == nil || r.DB == nil {
		return errors.New("readings repo: DB is nil")
	}
	const q = `
		INSERT INTO meter_readings
			(meter_id, ts, voltage, current, power_kw, energy_kwh, interval_kwh, power_factor, frequency, load_flag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, q,
		row.MeterID, row.TS.UTC(), row.Voltage, row.Current, row.Power,
		row.EnergyKWh, row.IntervalKWh, row.PowerFactor, row.Frequency, row.LoadFlag)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func (r *ReadingsRepo) List(ctx context.Context, f ReadingFilter) ([]ReadingRow, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("readings repo: DB is nil")
	}
	if strings.TrimSpace(f.MeterID) == "" {
		return nil, errors.New("readings repo: empty MeterID")
	}
	if f.Limit <= 0 || f.Limit > 5000 {
		f.Limit = 1000
	}

	var sb strings.Builder
	args := []any{f.MeterID}
	sb.WriteString(`
		SELECT id, meter_id, ts, voltage, current, power_kw, energy_kwh, interval_kwh, power_factor, frequency, load_flag
		FROM meter_readings
		WHERE meter_id = ?`)

	if f.Start != nil {
		sb.WriteString(` AND ts >= ?`)
		args = append(args, f.Start.UTC())
	}
	if f.End != nil {
		sb.WriteString(` AND ts < ?`)
		args = append(args, f.End.UTC())
	}

	if strings.EqualFold(f.Order, "desc") {
		sb.WriteString(` ORDER BY ts DESC`)
	} else {
		sb.WriteString(` ORDER BY ts ASC`)
	}
	sb.WriteString(` LIMIT ?`)
	args = append(args, f.Limit)

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	out := make([]ReadingRow, 0, 512)
	for rows.Next() {
		var row ReadingRow
		if err := rows.Scan(&row.ID, &row.MeterID, &row.TS, &row.Voltage, &row.Current,
			&row.Power, &row.EnergyKWh, &row.IntervalKWh, &row.PowerFactor, &row.Frequency, &row.LoadFlag); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LatestN: n bacaan terakhir, urut naik (siap dipakai window analitik).
func (r *ReadingsRepo) LatestN(ctx context.Context, meterID string, n int) ([]ReadingRow, error) {
	rows, err := r.List(ctx, ReadingFilter{MeterID: meterID, Limit: n, Order: "desc"})
	if err != nil {
		return nil, err
	}
	// balik ke ascending
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// MonthStats: agregat bulan berjalan untuk input proyeksi.
type MonthStats struct {
	KWhSoFar    float64 // max(energy) - min(energy) register kumulatif
	AvgLoadFlag float64
	AvgVoltage  float64
	LastDay     int // day-of-month bacaan terakhir
	Samples     int
}

// MonthToDate menghitung agregat dari awal bulan ts sampai sekarang.
func (r *ReadingsRepo) MonthToDate(ctx context.Context, meterID string, now time.Time) (MonthStats, error) {
	var s MonthStats
	if r == nil || r.DB == nil {
		return s, errors.New("readings repo: DB is nil")
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	const q = `
		SELECT
			COALESCE(MAX(energy_kwh) - MIN(energy_kwh), 0),
			COALESCE(AVG(load_flag), 0),
			COALESCE(AVG(voltage), 0),
			COALESCE(MAX(DAY(ts)), 0),
			COUNT(*)
		FROM meter_readings
		WHERE meter_id = ? AND ts >= ? AND ts < ?`
	err := r.DB.QueryRowContext(ctx, q, meterID, monthStart, now.UTC()).
		Scan(&s.KWhSoFar, &s.AvgLoadFlag, &s.AvgVoltage, &s.LastDay, &s.Samples)
	if err != nil {
		return s, fmt.Errorf("month-to-date stats: %w", err)
	}
	return s, nil
}
