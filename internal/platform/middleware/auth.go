// Package middleware carries HTTP middleware shared across routes.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims are the verified token claims handlers may rely on. Subject is the
// operator's email and doubles as the impersonation principal for directory
// calls.
type Claims struct {
	Subject string
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*Claims, error)
}

// HS256Verifier verifies HMAC-SHA256 signed tokens against a shared key.
type HS256Verifier struct {
	key []byte
}

func NewHS256Verifier(signingKey string) *HS256Verifier {
	return &HS256Verifier{key: []byte(signingKey)}
}

func (v *HS256Verifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return &Claims{Subject: subject}, nil
}

type contextKeyPrincipal struct{}

// Principal returns the authenticated operator email, or "" outside an
// authenticated request.
func Principal(ctx context.Context) string {
	principal, ok := ctx.Value(contextKeyPrincipal{}).(string)
	if !ok {
		return ""
	}
	return principal
}

// WithPrincipal injects a principal directly, for tests and trusted callers.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, principal)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject in the request context.
func RequireAuth(verifier TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				log.Warn("unauthorized access - missing token",
					zap.String("path", r.URL.Path))
				writeJSONError(w, http.StatusUnauthorized, "unauthorized",
					"Missing or invalid Authorization header")
				return
			}
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				log.Warn("unauthorized access - invalid token",
					zap.String("path", r.URL.Path), zap.Error(err))
				writeJSONError(w, http.StatusUnauthorized, "unauthorized",
					"Invalid or expired token")
				return
			}
			ctx := WithPrincipal(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
