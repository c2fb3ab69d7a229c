// internal/analytics/engine.go
// Engine analitik: semua komponen murni, stateless, aman concurrent

package analytics

import (
	"gram-meter/internal/util"
)

// Engine membungkus konfigurasi (threshold, tarif) dan ModelSet.
// Semua method hanya membaca input window + model; tidak ada shared
// mutable state, jadi satu Engine boleh dipakai banyak goroutine.
type Engine struct {
	thresholds Thresholds
	tariff     TariffTable
	models     ModelSet
	clock      util.Clock
}

// Option pattern: default dulu, override seperlunya.
type Option func(*Engine)

func WithThresholds(t Thresholds) Option   { return func(e *Engine) { e.thresholds = t } }
func WithTariff(t TariffTable) Option      { return func(e *Engine) { e.tariff = t } }
func WithModels(m ModelSet) Option         { return func(e *Engine) { e.models = m } }
func WithClock(c util.Clock) Option        { return func(e *Engine) { e.clock = c } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		thresholds: DefaultThresholds(),
		tariff:     DefaultTariff(),
		clock:      util.RealClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tariff mengembalikan tabel tarif aktif engine.
func (e *Engine) Tariff() TariffTable { return e.tariff }
