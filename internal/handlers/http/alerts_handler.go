// internal/handlers/http/alerts_handler.go
// Query & acknowledge alert anomali

package http

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"gram-meter/internal/repositories/mysql"
	"gram-meter/internal/util"
)

type AlertsHandler struct {
	Repo *mysql.AlertsRepo
}

type alertResp struct {
	AlertID      string    `json:"alert_id"`
	MeterID      string    `json:"meter_id"`
	AlertType    string    `json:"alert_type"`
	Severity     string    `json:"severity"`
	Message      string    `json:"message"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}

// List: GET /api/alerts?meter_id=&severity=critical,warning&ack=false&since=&limit=
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := mysql.AlertFilter{MeterID: q.Get("meter_id")}
	if s := q.Get("severity"); s != "" {
		f.Severities = strings.Split(s, ",")
	}
	if s := q.Get("ack"); s != "" {
		ack, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, util.BadInput("ack must be true/false"))
			return
		}
		f.Acknowledged = &ack
	}
	if s := q.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, util.BadInput("since must be RFC3339"))
			return
		}
		f.Since = &t
	}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))

	rows, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]alertResp, 0, len(rows))
	for _, a := range rows {
		out = append(out, alertResp{
			AlertID:      a.AlertID,
			MeterID:      a.MeterID,
			AlertType:    a.AlertType,
			Severity:     a.Severity,
			Message:      a.Message,
			Acknowledged: a.Acknowledged,
			CreatedAt:    a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": out, "count": len(out)})
}

// Acknowledge: POST /api/alerts/{id}/ack
func (h *AlertsHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	alertID := mux.Vars(r)["id"]
	if err := h.Repo.Acknowledge(r.Context(), alertID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, util.NotFound("alert "+alertID+" not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"alert_id": alertID, "status": "acknowledged"})
}

// Summary: GET /api/alerts/summary?hours=24
func (h *AlertsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	if hours <= 0 || hours > 24*30 {
		hours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	counts, err := h.Repo.CountBySeverity(r.Context(), since)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"since_hours": hours,
		"by_severity": counts,
	})
}
