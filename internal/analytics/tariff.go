// internal/analytics/tariff.go
// Perhitungan biaya listrik tarif slab progresif (skema Gujarat)

package analytics

import (
	"fmt"
	"math"

	"gram-meter/internal/util"
)

// Slab adalah satu jenjang tarif. Limit = batas atas kumulatif (kWh);
// slab terakhir wajib tanpa limit (Limit <= 0).
type Slab struct {
	Limit float64 // kWh, <=0 berarti tak terbatas
	Rate  float64 // per kWh
}

// TariffTable adalah daftar slab terurut plus biaya tetap per periode.
type TariffTable struct {
	Slabs       []Slab
	FixedCharge float64 // ditambahkan sekali per periode tagihan, bukan per slab
}

// DefaultTariff: tarif rural Gujarat (INR/kWh).
func DefaultTariff() TariffTable {
	return TariffTable{
		Slabs: []Slab{
			{Limit: 100, Rate: 3.5},
			{Limit: 250, Rate: 5.2},
			{Limit: 0, Rate: 7.5},
		},
		FixedCharge: 25.0,
	}
}

// SlabCost menghitung biaya energi murni (tanpa fixed charge) untuk
// totalUnits kWh. Progresif: kapasitas slab dikonsumsi berurutan, rate
// tiap slab hanya berlaku untuk porsi di rentangnya. Eksak di batas slab.
func SlabCost(totalUnits float64, t TariffTable) (float64, error) {
	if totalUnits < 0 {
		return 0, util.BadInput(fmt.Sprintf("total units must be >= 0, got %v", totalUnits))
	}
	if len(t.Slabs) == 0 {
		return 0, util.BadInput("tariff table has no slabs")
	}

	cost := 0.0
	prevLimit := 0.0
	remaining := totalUnits
	for i, s := range t.Slabs {
		last := i == len(t.Slabs)-1
		if last || s.Limit <= 0 {
			cost += remaining * s.Rate
			remaining = 0
			break
		}
		capacity := s.Limit - prevLimit
		if capacity < 0 {
			return 0, util.BadInput("tariff slabs not in ascending order")
		}
		take := math.Min(remaining, capacity)
		cost += take * s.Rate
		remaining -= take
		prevLimit = s.Limit
		if remaining <= 0 {
			break
		}
	}
	return cost, nil
}

// BillAmount = biaya slab + fixed charge satu periode.
func BillAmount(totalUnits float64, t TariffTable) (float64, error) {
	c, err := SlabCost(totalUnits, t)
	if err != nil {
		return 0, err
	}
	return c + t.FixedCharge, nil
}
