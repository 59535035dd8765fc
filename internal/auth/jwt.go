// internal/auth/jwt.go
//
// Bearer-token middleware.
//
// Context
// -------
// The backend issues HS256 tokens whose claims carry `rol` and `empresaId`.
// Bearer verifies the signature and expiry, then stores the resulting *User
// in the request context.  Requests without an Authorization header proceed
// anonymously so public endpoints keep working; a present but invalid token
// is rejected with 401.

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned by Parse for any unusable token.
var ErrInvalidToken = errors.New("invalid token")

// Claims mirrors the backend token payload.
type Claims struct {
	Rol       string `json:"rol"`
	EmpresaID int    `json:"empresaId"`
	jwt.RegisteredClaims
}

// Parse verifies raw with secret and returns the embedded user.
func Parse(raw string, secret []byte) (*User, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Rol == "" {
		return nil, fmt.Errorf("%w: missing rol claim", ErrInvalidToken)
	}
	return &User{Subject: c.Subject, Rol: c.Rol, EmpresaID: c.EmpresaID}, nil
}

// Issue signs a token for u.  Used by tests and the local dev login.
func Issue(u *User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		Rol:       u.Rol,
		EmpresaID: u.EmpresaID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// Bearer returns middleware that authenticates the Authorization header.
func Bearer(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			u, err := Parse(strings.TrimSpace(raw), secret)
			if err != nil {
				zap.S().Debugw("bearer rejected", "err", err, "path", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}
