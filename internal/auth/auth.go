// Package auth implements the admin session gate: credential verification
// for the single privileged account and JWT-backed session cookies.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gieo-gita/summit-registration/internal/config"
)

// SessionCookie is the cookie that carries the admin session token.
const SessionCookie = "summit_session"

const roleAdmin = "admin"

// ErrInvalidCredentials covers every login failure. Callers must not leak
// which credential was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims are the session token claims.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions verifies admin credentials and issues/validates session tokens.
type Sessions struct {
	signingKey []byte
	ttl        time.Duration
	adminEmail string
	adminHash  []byte
	logger     *slog.Logger
}

// New constructs a Sessions gate from environment-held admin settings.
func New(admin config.Admin, session config.Session, logger *slog.Logger) *Sessions {
	return &Sessions{
		signingKey: []byte(session.SigningKey),
		ttl:        session.TTL,
		adminEmail: strings.ToLower(admin.Email),
		adminHash:  []byte(admin.PasswordHash),
		logger:     logger,
	}
}

// Login verifies the credentials against the configured admin account and
// returns a signed session token. Any mismatch yields ErrInvalidCredentials.
func (s *Sessions) Login(email, password string) (string, error) {
	if strings.ToLower(strings.TrimSpace(email)) != s.adminEmail {
		// Run the hash comparison anyway so the two failure paths cost
		// roughly the same.
		_ = bcrypt.CompareHashAndPassword(s.adminHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken()
}

func (s *Sessions) issueToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   s.adminEmail,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// validateToken parses and verifies a session token, requiring the admin
// role claim.
func (s *Sessions) validateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Role != roleAdmin {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// NewSessionCookie wraps a token in the HttpOnly session cookie.
func (s *Sessions) NewSessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie expires the session cookie.
func (s *Sessions) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequireAdmin gates a route subtree on a valid admin session, taken from
// the session cookie or a Bearer header. Unauthenticated requests get a 401
// with a single generic message and no detail about why.
func (s *Sessions) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			s.reject(w, r, "missing session token")
			return
		}
		if _, err := s.validateToken(token); err != nil {
			s.reject(w, r, "invalid session token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Sessions) reject(w http.ResponseWriter, r *http.Request, reason string) {
	s.logger.Warn("unauthorized admin request",
		"reason", reason, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"Unauthorized"}`))
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}
