// internal/services/analytics_service.go
// Orkestrasi engine analitik + repo bacaan: rakit window, panggil engine

package services

import (
	"context"
	"database/sql"
	"errors"

	"gram-meter/internal/analytics"
	"gram-meter/internal/repositories/mysql"
	"gram-meter/internal/util"
)

const (
	// efficiencyWindowSize: jumlah bacaan terakhir untuk skor efisiensi.
	efficiencyWindowSize = 96
	// forecastWindowSize: bacaan terakhir untuk forecast jam berikutnya.
	forecastWindowSize = 24
	// patternLookbackDays: riwayat untuk analisa pola & forecast mingguan.
	patternLookbackDays = 7
)

type AnalyticsService struct {
	Engine   *analytics.Engine
	Readings *mysql.ReadingsRepo
	Meters   *mysql.MetersRepo
	Clock    util.Clock
}

func NewAnalyticsService(engine *analytics.Engine, readings *mysql.ReadingsRepo, meters *mysql.MetersRepo) *AnalyticsService {
	return &AnalyticsService{Engine: engine, Readings: readings, Meters: meters, Clock: util.RealClock{}}
}

// toReading memetakan row DB ke tipe engine. Energy memakai
// interval_kwh (delta per bacaan, sudah dihitung pipeline ingest) —
// register kumulatif energy_kwh akan menggelembungkan total energi
// kalau dijumlahkan per window.
func toReading(row mysql.ReadingRow) analytics.Reading {
	return analytics.Reading{
		MeterID:     row.MeterID,
		Timestamp:   row.TS,
		Voltage:     row.Voltage,
		Current:     row.Current,
		Power:       row.Power,
		Energy:      row.IntervalKWh,
		EnergyKind:  analytics.EnergyInterval,
		PowerFactor: row.PowerFactor,
		Frequency:   row.Frequency,
		LoadFlag:    row.LoadFlag,
		DayOfMonth:  row.TS.Day(),
	}
}

func toReadings(rows []mysql.ReadingRow) []analytics.Reading {
	out := make([]analytics.Reading, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReading(row))
	}
	return out
}

// ensureMeter memastikan meter terdaftar sebelum query analitik.
func (s *AnalyticsService) ensureMeter(ctx context.Context, meterID string) error {
	if meterID == "" {
		return util.BadInput("meter_id is required")
	}
	if _, err := s.Meters.Get(ctx, meterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return util.NotFound("meter " + meterID + " not registered")
		}
		return err
	}
	return nil
}

// Projection menghitung proyeksi tagihan akhir bulan dari agregat
// bulan berjalan.
func (s *AnalyticsService) Projection(ctx context.Context, meterID string) (analytics.ProjectionResult, error) {
	if err := s.ensureMeter(ctx, meterID); err != nil {
		return analytics.ProjectionResult{}, err
	}
	now := s.Clock.Now().UTC()
	stats, err := s.Readings.MonthToDate(ctx, meterID, now)
	if err != nil {
		return analytics.ProjectionResult{}, err
	}
	if stats.Samples == 0 {
		return analytics.ProjectionResult{}, util.InsufficientData("no readings for meter " + meterID + " this month")
	}
	return s.Engine.ProjectMonthly(analytics.ProjectionInput{
		DayOfMonth:  stats.LastDay,
		KWhSoFar:    stats.KWhSoFar,
		AvgLoadFlag: stats.AvgLoadFlag,
		AvgVoltage:  stats.AvgVoltage,
	})
}

// Efficiency menilai kualitas pemakaian dari window bacaan terakhir.
func (s *AnalyticsService) Efficiency(ctx context.Context, meterID string) (analytics.EfficiencyResult, error) {
	if err := s.ensureMeter(ctx, meterID); err != nil {
		return analytics.EfficiencyResult{}, err
	}
	rows, err := s.Readings.LatestN(ctx, meterID, efficiencyWindowSize)
	if err != nil {
		return analytics.EfficiencyResult{}, err
	}
	return s.Engine.ScoreEfficiency(toReadings(rows))
}

// Pattern menganalisa pola jam pemakaian dalam lookback beberapa hari.
func (s *AnalyticsService) Pattern(ctx context.Context, meterID string) (analytics.PatternAnalysis, error) {
	if err := s.ensureMeter(ctx, meterID); err != nil {
		return analytics.PatternAnalysis{}, err
	}
	rows, err := s.lookbackRows(ctx, meterID)
	if err != nil {
		return analytics.PatternAnalysis{}, err
	}
	return s.Engine.AnalyzePattern(toReadings(rows)), nil
}

// ForecastNextHour memprediksi beban jam berikutnya.
func (s *AnalyticsService) ForecastNextHour(ctx context.Context, meterID string) (analytics.HourlyForecast, error) {
	if err := s.ensureMeter(ctx, meterID); err != nil {
		return analytics.HourlyForecast{}, err
	}
	rows, err := s.Readings.LatestN(ctx, meterID, forecastWindowSize)
	if err != nil {
		return analytics.HourlyForecast{}, err
	}
	return s.Engine.ForecastNextHour(toReadings(rows)), nil
}

// ForecastWeek memprediksi konsumsi harian 7 hari ke depan.
func (s *AnalyticsService) ForecastWeek(ctx context.Context, meterID string) ([]analytics.DailyForecast, error) {
	if err := s.ensureMeter(ctx, meterID); err != nil {
		return nil, err
	}
	rows, err := s.lookbackRows(ctx, meterID)
	if err != nil {
		return nil, err
	}
	return s.Engine.ForecastWeek(toReadings(rows)), nil
}

// BillingEstimate: tagihan bulan berjalan dari kWh yang sudah terpakai
// (slab + biaya tetap), tanpa proyeksi.
type BillingEstimate struct {
	MeterID    string  `json:"meter_id"`
	Month      string  `json:"month"` // YYYY-MM
	KWhSoFar   float64 `json:"kwh_so_far"`
	EnergyCost float64 `json:"energy_cost"`
	FixedCost  float64 `json:"fixed_cost"`
	Total      float64 `json:"total"`
}

func (s *AnalyticsService) Billing(ctx context.Context, meterID string) (BillingEstimate, error) {
	if err := s.ensureMeter(ctx, meterID); err != nil {
		return BillingEstimate{}, err
	}
	now := s.Clock.Now().UTC()
	stats, err := s.Readings.MonthToDate(ctx, meterID, now)
	if err != nil {
		return BillingEstimate{}, err
	}
	tariff := s.Engine.Tariff()
	energyCost, err := analytics.SlabCost(stats.KWhSoFar, tariff)
	if err != nil {
		return BillingEstimate{}, err
	}
	total, err := analytics.BillAmount(stats.KWhSoFar, tariff)
	if err != nil {
		return BillingEstimate{}, err
	}
	return BillingEstimate{
		MeterID:    meterID,
		Month:      now.Format("2006-01"),
		KWhSoFar:   stats.KWhSoFar,
		EnergyCost: energyCost,
		FixedCost:  tariff.FixedCharge,
		Total:      total,
	}, nil
}

func (s *AnalyticsService) lookbackRows(ctx context.Context, meterID string) ([]mysql.ReadingRow, error) {
	start := s.Clock.Now().UTC().AddDate(0, 0, -patternLookbackDays)
	return s.Readings.List(ctx, mysql.ReadingFilter{
		MeterID: meterID,
		Start:   &start,
		Order:   "asc",
		Limit:   5000,
	})
}
