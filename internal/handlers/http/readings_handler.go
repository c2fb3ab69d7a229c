// internal/handlers/http/readings_handler.go
// Query bacaan tersimpan + ingest HTTP untuk gateway non-Kafka

package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"gram-meter/internal/ingest"
	"gram-meter/internal/repositories/mysql"
	"gram-meter/internal/util"
)

type ReadingsHandler struct {
	Repo     *mysql.ReadingsRepo
	Pipeline *ingest.Pipeline
}

type readingResp struct {
	MeterID     string    `json:"meter_id"`
	TS          time.Time `json:"timestamp"`
	Voltage     float64   `json:"voltage"`
	Current     float64   `json:"current"`
	PowerKW     float64   `json:"power_kw"`
	EnergyKWh   float64   `json:"energy_kwh"`
	IntervalKWh float64   `json:"interval_kwh"`
	PowerFactor float64   `json:"power_factor"`
	Frequency   float64   `json:"frequency"`
	LoadFlag    int       `json:"load_flag"`
}

func toReadingResp(row mysql.ReadingRow) readingResp {
	return readingResp{
		MeterID:     row.MeterID,
		TS:          row.TS,
		Voltage:     row.Voltage,
		Current:     row.Current,
		PowerKW:     row.Power,
		EnergyKWh:   row.EnergyKWh,
		IntervalKWh: row.IntervalKWh,
		PowerFactor: row.PowerFactor,
		Frequency:   row.Frequency,
		LoadFlag:    row.LoadFlag,
	}
}

// List: GET /api/meters/{id}/readings?start=&end=&limit=&order=
func (h *ReadingsHandler) List(w http.ResponseWriter, r *http.Request) {
	meterID := mux.Vars(r)["id"]
	q := r.URL.Query()

	f := mysql.ReadingFilter{MeterID: meterID, Order: q.Get("order")}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	if s := q.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, util.BadInput("start must be RFC3339"))
			return
		}
		f.Start = &t
	}
	if s := q.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, util.BadInput("end must be RFC3339"))
			return
		}
		f.End = &t
	}

	rows, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]readingResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReadingResp(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"meter_id": meterID, "readings": out, "count": len(out)})
}

// Latest: GET /api/meters/{id}/readings/latest
func (h *ReadingsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	meterID := mux.Vars(r)["id"]
	rows, err := h.Repo.LatestN(r.Context(), meterID, 1)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(rows) == 0 {
		writeError(w, util.NotFound("no readings for meter "+meterID))
		return
	}
	writeJSON(w, http.StatusOK, toReadingResp(rows[0]))
}

// Ingest: POST /api/readings — jalur HTTP untuk gateway yang tidak
// punya akses broker. Payload sama dengan pesan Kafka.
func (h *ReadingsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, util.BadInput("read body: "+err.Error()))
		return
	}
	if err := h.Pipeline.HandleRaw(r.Context(), body); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
