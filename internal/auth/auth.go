// Package auth guards administrative routes with a bcrypt-hashed bearer token.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashToken hashes a plain-text token using bcrypt cost 12.
func HashToken(plain string) (string, error) {
	return hashToken(plain, bcryptCost)
}

func hashToken(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("auth.HashToken: %w", err)
	}
	return string(b), nil
}

// CheckToken compares plain text against a bcrypt hash.
func CheckToken(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Guard holds the hashed admin token. Only the hash is kept in memory.
type Guard struct {
	hash string
}

// NewGuard hashes token. An empty token yields a Guard that rejects every request.
func NewGuard(token string) (*Guard, error) {
	return newGuard(token, bcryptCost)
}

func newGuard(token string, cost int) (*Guard, error) {
	if token == "" {
		return &Guard{}, nil
	}
	hash, err := hashToken(token, cost)
	if err != nil {
		return nil, fmt.Errorf("auth.NewGuard: %w", err)
	}
	return &Guard{hash: hash}, nil
}

// Enabled reports whether an admin token is configured.
func (g *Guard) Enabled() bool {
	return g != nil && g.hash != ""
}

// Check reports whether plain matches the admin token.
func (g *Guard) Check(plain string) bool {
	if !g.Enabled() || plain == "" {
		return false
	}
	return CheckToken(plain, g.hash)
}

// RequireAdmin is middleware that validates a Bearer token from the Authorization header
// (or X-Admin-Token).
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Enabled() {
			http.Error(w, `{"success":false,"error":"admin routes are disabled"}`, http.StatusForbidden)
			return
		}
		if !g.Check(TokenFromRequest(r)) {
			http.Error(w, `{"success":false,"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromRequest extracts the admin token from request headers.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return r.Header.Get("X-Admin-Token")
}
