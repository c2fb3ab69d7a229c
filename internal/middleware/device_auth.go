// middleware/device_auth.go
// API key untuk endpoint ingest HTTP (gateway meter yang tidak lewat Kafka)

package middleware

import (
	"net/http"
)

// DeviceAuth mencocokkan X-API-Key gateway. Key kosong = auth mati
// (mode dev), sama seperti deployment lab.
func DeviceAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
