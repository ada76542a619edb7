package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const adminRole = "admin"

type adminKey struct{}

// adminSubject returns the authenticated admin's subject claim.
func adminSubject(r *http.Request) string {
	sub, _ := r.Context().Value(adminKey{}).(string)
	return sub
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAdmin accepts HS256 bearer tokens signed with secret and carrying
// role=admin. An empty secret rejects every request.
func RequireAdmin(secret string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, err := verifyAdmin(r.Header.Get("Authorization"), secret)
			if err != nil {
				log.Debug("admin auth rejected", zap.String("path", r.URL.Path), zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, envelope{Error: "unauthorized", Code: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey{}, sub)))
		})
	}
}

func verifyAdmin(header, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("admin secret not configured")
	}
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", fmt.Errorf("missing bearer token")
	}

	var claims adminClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.Role != adminRole {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

// SignAdminToken issues an admin token; used by ops tooling and tests.
func SignAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	claims := adminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
