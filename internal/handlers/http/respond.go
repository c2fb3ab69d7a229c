// internal/handlers/http/respond.go
// Helper JSON response + mapping AppError ke status HTTP

package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gram-meter/internal/util"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] write json: %v", err)
	}
}

// writeError menerjemahkan AppError ke status; error lain jadi 500
// tanpa membocorkan detail internal ke klien.
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
	log.Printf("[ERROR] handler: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal", "message": "internal error"})
}
