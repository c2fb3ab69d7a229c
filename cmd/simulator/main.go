// cmd/simulator/main.go
// Simulator meter virtual: publish telemetry ke Kafka tiap 2 detik

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Shopify/sarama"
)

// surgeEvery: tiap bacaan ke-15 per meter dibuat lonjakan tegangan
// supaya jalur alert kelihatan hidup di demo.
const surgeEvery = 15

type virtualMeter struct {
	ID       string
	Format   string // tata | bescom | generic
	Energy   float64
	Count    int
	PumpBias float64 // probabilitas pompa nyala di jam siang
}

func main() {
	brokers := flag.String("brokers", envOr("KAFKA_BROKERS", "localhost:9092"), "comma separated kafka brokers")
	topic := flag.String("topic", envOr("KAFKA_TOPIC", "meter-readings"), "topic tujuan")
	meters := flag.Int("meters", 5, "jumlah meter virtual")
	interval := flag.Duration("interval", 2*time.Second, "jeda antar bacaan per meter")
	flag.Parse()

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(strings.Split(*brokers, ","), cfg)
	if err != nil {
		log.Fatalf("producer init: %v", err)
	}
	defer producer.Close()

	formats := []string{"generic", "tata", "bescom"}
	fleet := make([]*virtualMeter, 0, *meters)
	for i := 0; i < *meters; i++ {
		fleet = append(fleet, &virtualMeter{
			ID:       fmt.Sprintf("VM-%03d", i+1),
			Format:   formats[i%len(formats)],
			Energy:   rand.Float64() * 500,
			PumpBias: 0.3 + rand.Float64()*0.4,
		})
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(*interval)
	defer tick.Stop()

	log.Printf("simulating %d meters -> %s @ %v", len(fleet), *topic, *brokers)
	for {
		select {
		case <-stop:
			log.Println("simulator stopped")
			return
		case now := <-tick.C:
			for _, m := range fleet {
				payload := m.next(now.UTC())
				b, _ := json.Marshal(payload)
				_, _, err := producer.SendMessage(&sarama.ProducerMessage{
					Topic: *topic,
					Key:   sarama.StringEncoder(m.ID),
					Value: sarama.ByteEncoder(b),
				})
				if err != nil {
					log.Printf("[WARN] send %s: %v", m.ID, err)
				}
			}
		}
	}
}

// next menghitung satu bacaan. Profil beban mengikuti jam: pompa
// irigasi aktif siang, beban rumah naik malam.
func (m *virtualMeter) next(now time.Time) map[string]any {
	m.Count++

	hour := now.Hour()
	pump := 0
	if hour >= 9 && hour <= 17 && rand.Float64() < m.PumpBias {
		pump = 1
	}

	base := 0.2 + 0.15*math.Sin(float64(hour)/24*2*math.Pi)
	if hour >= 18 && hour <= 22 {
		base += 0.5 // beban malam rumah tangga
	}
	power := base + float64(pump)*1.5 + rand.Float64()*0.1 // kW

	voltage := 225 + rand.Float64()*12
	if m.Count%surgeEvery == 0 {
		voltage = 290 + rand.Float64()*15 // paksa voltage_surge
	}

	m.Energy += power * 2.0 / 3600.0 // kWh per 2 detik
	current := power * 1000 / voltage
	pf := 0.88 + rand.Float64()*0.1
	freq := 49.8 + rand.Float64()*0.4

	switch m.Format {
	case "tata":
		return map[string]any{
			"device_id":      m.ID,
			"reading_time":   now.Format(time.RFC3339),
			"volt":           voltage,
			"amp":            current,
			"active_power_w": power * 1000,
			"cumulative_kwh": m.Energy,
			"pf":             pf,
			"freq_hz":        freq,
		}
	case "bescom":
		return map[string]any{
			"meter_number":     m.ID,
			"timestamp":        now.Format("2006-01-02 15:04:05"),
			"voltage_v":        voltage,
			"current_a":        current,
			"power_w":          power * 1000,
			"total_energy_kwh": m.Energy,
			"power_factor":     pf,
			"frequency":        freq,
		}
	default:
		return map[string]any{
			"meter_id":  m.ID,
			"timestamp": now.Format(time.RFC3339),
			"voltage":   voltage,
			"current":   current,
			"power":     power,
			"energy":    m.Energy,
			"pf":        pf,
			"frequency": freq,
			"pump":      pump,
		}
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
