// internal/middleware/jwt.go
// Autentikasi JWT dengan claim role untuk RBAC

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	ctxUser ctxKey = "auth_user"
	ctxRole ctxKey = "auth_role"
)

// Role yang dikenal platform. Farmer hanya lihat meternya sendiri;
// sarpanch level desa; utility & government lintas desa.
const (
	RoleFarmer     = "farmer"
	RoleSarpanch   = "sarpanch"
	RoleUtility    = "utility"
	RoleGovernment = "government"
)

// GenerateToken membuat JWT HS256 24 jam dengan claim user + role.
func GenerateToken(secret, username, role string) (string, int64, error) {
	exp := time.Now().Add(24 * time.Hour).Unix()
	claims := jwt.MapClaims{
		"user": username,
		"role": role,
		"exp":  exp,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	return signed, exp, err
}

// JWTAuth memverifikasi bearer token dan menaruh user+role di context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "jwt not configured", http.StatusForbidden)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid claims", http.StatusUnauthorized)
				return
			}
			user, _ := claims["user"].(string)
			role, _ := claims["role"].(string)
			ctx := context.WithValue(r.Context(), ctxUser, user)
			ctx = context.WithValue(ctx, ctxRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom / RoleFrom membaca identitas hasil JWTAuth.
func UserFrom(ctx context.Context) string {
	u, _ := ctx.Value(ctxUser).(string)
	return u
}

func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(ctxRole).(string)
	return role
}
