// internal/handlers/analytics/handler.go
// Endpoint analitik per meter: proyeksi, efisiensi, pola, forecast

package analytics

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gram-meter/internal/advisor"
	"gram-meter/internal/services"
	"gram-meter/internal/util"
)

type Handler struct {
	Svc     *services.AnalyticsService
	Advisor *advisor.Advisor
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] write json: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var ae util.AppError
	if errors.As(err, &ae) {
		status := http.StatusInternalServerError
		switch ae.Code {
		case "bad_input":
			status = http.StatusBadRequest
		case "not_found":
			status = http.StatusNotFound
		case "insufficient_data", "model_unavailable":
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": ae.Code, "message": ae.Message})
		return
	}
	log.Printf("[ERROR] analytics handler: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal", "message": "internal error"})
}

func (h *Handler) meterID(r *http.Request) string {
	return chi.URLParam(r, "meterID")
}

// Projection: GET /analytics/{meterID}/projection
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Projection(r.Context(), h.meterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Efficiency: GET /analytics/{meterID}/efficiency
func (h *Handler) Efficiency(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Efficiency(r.Context(), h.meterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Pattern: GET /analytics/{meterID}/pattern
func (h *Handler) Pattern(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Pattern(r.Context(), h.meterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ForecastNextHour: GET /analytics/{meterID}/forecast/next-hour
func (h *Handler) ForecastNextHour(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.ForecastNextHour(r.Context(), h.meterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ForecastWeek: GET /analytics/{meterID}/forecast/weekly
func (h *Handler) ForecastWeek(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.ForecastWeek(r.Context(), h.meterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meter_id": h.meterID(r), "daily": res})
}

// Billing: GET /analytics/{meterID}/billing
func (h *Handler) Billing(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Billing(r.Context(), h.meterID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Insights: GET /analytics/{meterID}/insights — gabungkan hasil engine
// lalu minta saran naratif (LLM atau template).
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	meterID := h.meterID(r)
	ctx := r.Context()

	eff, err := h.Svc.Efficiency(ctx, meterID)
	if err != nil {
		writeError(w, err)
		return
	}
	proj, err := h.Svc.Projection(ctx, meterID)
	if err != nil {
		writeError(w, err)
		return
	}
	pat, err := h.Svc.Pattern(ctx, meterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Advisor.Advise(ctx, meterID, eff, proj, pat))
}
