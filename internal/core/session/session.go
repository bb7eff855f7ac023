// Package session holds the per-user session state and request tracing info
// carried through context. The session is an explicit object, hydrated per
// request from the Authorization header, never a package-level singleton.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session identifies the acting user for the duration of a request.
type Session struct {
	UserID   string
	Username string
	Role     string

	// Token is the raw bearer token the session was hydrated from.
	Token     string
	ExpiresAt time.Time
}

// Active reports whether the session is present and not expired.
func (s *Session) Active() bool {
	return s != nil && s.UserID != "" && (s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt))
}

type sessionKey struct{}

// With adds the session to context.
func With(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// From returns the session from context, or nil when anonymous.
func From(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return s
	}
	return nil
}

// Actor returns the acting username from context, or "anonymous".
func Actor(ctx context.Context) string {
	if s := From(ctx); s.Active() {
		return s.Username
	}
	return "anonymous"
}

// --- Hydration from persisted tokens ---

// Claims are the token claims issued by the external auth service.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"usr"`
	Role     string `json:"role"`
}

// Service hydrates sessions from tokens the auth service issued.
// Token issuance itself belongs to that service; here we only verify
// and unpack.
type Service struct {
	secret []byte
}

// NewService creates a session service with the shared signing secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Hydrate verifies the token and builds a Session from its claims.
func (s *Service) Hydrate(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sess := &Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// Clear is the logout counterpart of Hydrate: it returns a context with the
// session removed.
func Clear(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, (*Session)(nil))
}

// --- Tracing ---

// Trace contains request tracing identifiers.
type Trace struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// WithTrace adds tracing info to context.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// TraceFrom returns tracing info from context, or nil.
func TraceFrom(ctx context.Context) *Trace {
	if t, ok := ctx.Value(traceKey{}).(*Trace); ok {
		return t
	}
	return nil
}

// NewTrace creates a Trace with generated identifiers.
func NewTrace() *Trace {
	return &Trace{
		TraceID:   uuid.New().String(),
		RequestID: uuid.New().String(),
	}
}
