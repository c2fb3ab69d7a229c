// internal/handlers/http/stream_sse_handler.go
// SSE: stream bacaan meter live ke dashboard

package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gram-meter/internal/repositories/mysql"
	"gram-meter/internal/util/sse"
)

type StreamHandler struct {
	Readings *mysql.ReadingsRepo

	// PollInterval bisa diperkecil di test; default 2s.
	PollInterval time.Duration
}

// Stream: GET /api/meters/{id}/stream
// Poll DB untuk bacaan baru lalu push sebagai event "reading".
// Heartbeat "ping" tiap 15 detik supaya proxy tidak memutus koneksi.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	meterID := mux.Vars(r)["id"]
	flusher := sse.PrepareSSE(w)
	if flusher == nil {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	interval := h.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	var lastTS time.Time
	// kirim bacaan terakhir dulu sebagai posisi awal
	if rows, err := h.Readings.LatestN(r.Context(), meterID, 1); err == nil && len(rows) == 1 {
		_ = sse.WriteEvent(w, flusher, "reading", toReadingResp(rows[0]))
		lastTS = rows[0].TS
	}

	poll := time.NewTicker(interval)
	defer poll.Stop()
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			_ = sse.WriteEvent(w, flusher, "ping", time.Now().UTC().Format(time.RFC3339))
		case <-poll.C:
			start := lastTS.Add(time.Millisecond)
			rows, err := h.Readings.List(r.Context(), mysql.ReadingFilter{
				MeterID: meterID,
				Start:   &start,
				Order:   "asc",
				Limit:   100,
			})
			if err != nil {
				_ = sse.WriteEvent(w, flusher, "error", err.Error())
				return
			}
			for _, row := range rows {
				_ = sse.WriteEvent(w, flusher, "reading", toReadingResp(row))
				lastTS = row.TS
			}
		}
	}
}
