/*
Kompilasi manual:
  go build -o tools/seed/seed ./tools/seed

Pakai contoh:
  ./tools/seed/seed \
    -dsn "root:password@tcp(127.0.0.1:3306)/gram_meter?parseTime=true" \
    -meters 5 -days 14 -truncate
*/

// [FILE] tools/seed/main.go
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

var (
	dsn      = flag.String("dsn", "root:password@tcp(127.0.0.1:3306)/gram_meter?parseTime=true", "MySQL DSN")
	nMeters  = flag.Int("meters", 5, "jumlah meter dummy")
	days     = flag.Int("days", 14, "riwayat bacaan (hari, per jam)")
	truncate = flag.Bool("truncate", false, "TRUNCATE tabel target dulu")
	batch    = flag.Int("batch", 500, "insert batch size")
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

var villages = []string{"Rampur", "Basantpur", "Chandangaon", "Devipura"}

func main() {
	flag.Parse()

	db, err := sql.Open("mysql", *dsn)
	must(err)
	defer db.Close()
	must(db.Ping())

	if *truncate {
		for _, t := range []string{"meter_readings", "alerts", "meters", "users"} {
			_, err := db.Exec("TRUNCATE TABLE " + t)
			must(err)
			log.Printf("[ok] truncated %s", t)
		}
	}

	seedUsers(db)
	meterIDs := seedMeters(db)
	seedReadings(db, meterIDs)
}

func seedUsers(db *sql.DB) {
	type acct struct{ user, pass, role, village, meter string }
	accts := []acct{
		{"ramesh", "ramesh123", "farmer", "Rampur", "MTR-001"},
		{"sarpanch_rampur", "panchayat123", "sarpanch", "Rampur", ""},
		{"mseb_ops", "utility123", "utility", "", ""},
		{"energy_dept", "gov123", "government", "", ""},
	}
	for _, a := range accts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.pass), bcrypt.DefaultCost)
		must(err)
		_, err = db.Exec(`
			INSERT INTO users (username, password_hash, role, village, meter_id, created_at)
			VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NOW())
			ON DUPLICATE KEY UPDATE password_hash = VALUES(password_hash)`,
			a.user, string(hash), a.role, a.village, a.meter)
		must(err)
	}
	log.Printf("[ok] %d users", len(accts))
}

func seedMeters(db *sql.DB) []string {
	types := []string{"residential", "agricultural", "commercial"}
	ids := make([]string, 0, *nMeters)
	for i := 0; i < *nMeters; i++ {
		id := fmt.Sprintf("MTR-%03d", i+1)
		_, err := db.Exec(`
			INSERT INTO meters (meter_id, owner_name, village, meter_type, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, 'active', NOW(), NOW())
			ON DUPLICATE KEY UPDATE updated_at = NOW()`,
			id, fmt.Sprintf("Owner %d", i+1), villages[i%len(villages)], types[i%len(types)])
		must(err)
		ids = append(ids, id)
	}
	log.Printf("[ok] %d meters", len(ids))
	return ids
}

// seedReadings mengisi riwayat per jam dengan profil beban desa:
// pompa siang untuk meter agricultural, puncak rumah tangga malam.
func seedReadings(db *sql.DB, meterIDs []string) {
	start := time.Now().UTC().Truncate(time.Hour).AddDate(0, 0, -*days)
	total := 0

	stmt := `INSERT INTO meter_readings
		(meter_id, ts, voltage, current, power_kw, energy_kwh, interval_kwh, power_factor, frequency, load_flag)
		VALUES `
	row := "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	for mi, id := range meterIDs {
		energy := rand.Float64() * 300
		agricultural := mi%3 == 1

		args := make([]any, 0, *batch*10)
		rows := 0
		flush := func() {
			if rows == 0 {
				return
			}
			q := stmt + row
			for i := 1; i < rows; i++ {
				q += ", " + row
			}
			_, err := db.Exec(q, args...)
			must(err)
			total += rows
			args = args[:0]
			rows = 0
		}

		for ts := start; ts.Before(time.Now()); ts = ts.Add(time.Hour) {
			hour := ts.Hour()
			pump := 0
			if agricultural && hour >= 9 && hour <= 16 && rand.Float64() < 0.7 {
				pump = 1
			}
			power := 0.15 + 0.1*math.Sin(float64(hour)/24*2*math.Pi) + rand.Float64()*0.05
			if hour >= 18 && hour <= 22 {
				power += 0.45
			}
			power += float64(pump) * 1.5

			voltage := 224 + rand.Float64()*12
			interval := power // 1 jam
			energy += interval

			args = append(args, id, ts, voltage, power*1000/voltage, power,
				energy, interval, 0.88+rand.Float64()*0.1, 49.8+rand.Float64()*0.4, pump)
			rows++
			if rows >= *batch {
				flush()
			}
		}
		flush()
	}
	log.Printf("[ok] %d readings", total)
}
