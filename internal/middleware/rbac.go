// middleware/rbac.go
// Middleware RBAC: batasi route per role dari claim JWT

package middleware

import (
	"net/http"
)

// RequireRole meloloskan request hanya bila role di context termasuk
// daftar allowed. Harus dipasang SETELAH JWTAuth.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFrom(r.Context())
			if _, ok := set[role]; !ok {
				http.Error(w, "forbidden for role "+role, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
