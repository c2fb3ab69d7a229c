// internal/handlers/http/meters_handler.go
// CRUD meter terdaftar

package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"gram-meter/internal/repositories/mysql"
	"gram-meter/internal/util"
)

type MetersHandler struct {
	Repo *mysql.MetersRepo
}

type meterPayload struct {
	MeterID   string `json:"meter_id"`
	OwnerName string `json:"owner_name"`
	Village   string `json:"village"`
	MeterType string `json:"meter_type"`
	Status    string `json:"status"`
}

type meterResp struct {
	MeterID   string    `json:"meter_id"`
	OwnerName string    `json:"owner_name"`
	Village   string    `json:"village,omitempty"`
	MeterType string    `json:"meter_type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMeterResp(m mysql.MeterRow) meterResp {
	return meterResp{
		MeterID:   m.MeterID,
		OwnerName: m.OwnerName,
		Village:   m.Village.String,
		MeterType: m.MeterType,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

var validMeterTypes = map[string]bool{
	"residential": true, "commercial": true, "agricultural": true, "industrial": true,
}

var validMeterStatus = map[string]bool{
	"active": true, "inactive": true, "maintenance": true, "faulty": true,
}

func (h *MetersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in meterPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, util.BadInput("invalid json body"))
		return
	}
	in.MeterID = strings.TrimSpace(in.MeterID)
	if in.MeterID == "" || in.OwnerName == "" {
		writeError(w, util.BadInput("meter_id and owner_name are required"))
		return
	}
	if in.MeterType == "" {
		in.MeterType = "residential"
	}
	if !validMeterTypes[in.MeterType] {
		writeError(w, util.BadInput("unknown meter_type "+in.MeterType))
		return
	}
	if in.Status == "" {
		in.Status = "active"
	}
	if !validMeterStatus[in.Status] {
		writeError(w, util.BadInput("unknown status "+in.Status))
		return
	}

	row := mysql.MeterRow{
		MeterID:   in.MeterID,
		OwnerName: in.OwnerName,
		MeterType: in.MeterType,
		Status:    in.Status,
	}
	if in.Village != "" {
		row.Village = sql.NullString{String: in.Village, Valid: true}
	}
	if err := h.Repo.Create(r.Context(), row); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"meter_id": in.MeterID, "status": "created"})
}

func (h *MetersHandler) Get(w http.ResponseWriter, r *http.Request) {
	meterID := mux.Vars(r)["id"]
	m, err := h.Repo.Get(r.Context(), meterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, util.NotFound("meter "+meterID+" not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMeterResp(m))
}

func (h *MetersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := mysql.MeterFilter{
		Village: q.Get("village"),
		Type:    q.Get("type"),
	}
	if s := q.Get("status"); s != "" {
		f.Statuses = strings.Split(s, ",")
	}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))

	rows, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]meterResp, 0, len(rows))
	for _, m := range rows {
		out = append(out, toMeterResp(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"meters": out, "count": len(out)})
}

func (h *MetersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	meterID := mux.Vars(r)["id"]
	var in struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, util.BadInput("invalid json body"))
		return
	}
	if !validMeterStatus[in.Status] {
		writeError(w, util.BadInput("unknown status "+in.Status))
		return
	}
	if err := h.Repo.UpdateStatus(r.Context(), meterID, in.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, util.NotFound("meter "+meterID+" not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"meter_id": meterID, "status": in.Status})
}

func (h *MetersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	meterID := mux.Vars(r)["id"]
	if err := h.Repo.Delete(r.Context(), meterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, util.NotFound("meter "+meterID+" not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"meter_id": meterID, "status": "deleted"})
}
