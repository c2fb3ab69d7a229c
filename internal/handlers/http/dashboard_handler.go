// internal/handlers/http/dashboard_handler.go
// Ringkasan kondisi meter untuk dashboard desa/utility

package http

import (
	"net/http"

	"gram-meter/internal/middleware"
	"gram-meter/internal/services"
)

type DashboardHandler struct {
	Svc *services.DashboardService
}

// Summary: GET /api/dashboard?village=...
// Sarpanch wajib kirim village; utility/government boleh lintas desa.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	village := r.URL.Query().Get("village")
	if middleware.RoleFrom(r.Context()) == middleware.RoleSarpanch && village == "" {
		http.Error(w, "village is required for sarpanch", http.StatusBadRequest)
		return
	}
	res, err := h.Svc.Summary(r.Context(), village)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
