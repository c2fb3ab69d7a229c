// internal/analytics/models.go
// Kontrak model prediksi + ModelSet yang di-inject ke engine

package analytics

// OutlierFeatures adalah feature vector untuk deteksi outlier.
// Urutan kolom mengikuti data training: power, voltage, load flag,
// deviasi |230 - voltage|.
type OutlierFeatures struct {
	Power            float64
	Voltage          float64
	LoadFlag         int
	VoltageDeviation float64
}

// DailyFeatures adalah feature vector untuk regresi rata-rata harian.
type DailyFeatures struct {
	AvgLoadFlag float64
	AvgVoltage  float64
}

// OutlierDetector mengklasifikasi satu bacaan sebagai outlier atau bukan.
type OutlierDetector interface {
	IsOutlier(f OutlierFeatures) (bool, error)
}

// DailyAverageRegressor memprediksi konsumsi rata-rata harian (kWh)
// untuk sisa hari dalam bulan berjalan.
type DailyAverageRegressor interface {
	PredictDailyAverage(f DailyFeatures) (float64, error)
}

// SeriesForecaster memprediksi nilai power berikutnya dari deret
// trailing (nilai terakhir di indeks paling belakang).
type SeriesForecaster interface {
	PredictNext(recent []float64) (float64, error)
}

// ModelSet menampung ketiga model opsional. Slot nil berarti model
// tidak tersedia dan komponen terkait jalan di fallback deterministik.
// Setelah load, ModelSet harus diperlakukan read-only; predict tidak
// boleh memutasi state internal supaya aman dipakai lintas goroutine.
type ModelSet struct {
	Outlier  OutlierDetector
	Daily    DailyAverageRegressor
	Forecast SeriesForecaster
}
