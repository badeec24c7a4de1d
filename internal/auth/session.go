// Package auth implements the signed-cookie session layer. A session carries
// the authenticated identity in the cookie itself; nothing is persisted
// server side.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	identityCtxKey    = ctxKey("identity")
)

// Identity is the authenticated context attached to a request after login.
type Identity struct {
	UserID      uint   `json:"uid"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	AvatarColor string `json:"avatar_color"`
	ExpiresAt   int64  `json:"exp"`
}

// Sessions signs and verifies session cookies.
type Sessions struct {
	Secret   string
	Lifetime time.Duration
}

// NewSessions returns a session codec with the given secret and lifetime.
func NewSessions(secret string, lifetime time.Duration) *Sessions {
	return &Sessions{Secret: secret, Lifetime: lifetime}
}

func (s *Sessions) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(s.Secret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Create sets a signed cookie carrying the identity. The expiry stamp is part
// of the signed payload, so clients cannot extend their own sessions.
func (s *Sessions) Create(w http.ResponseWriter, id Identity) {
	id.ExpiresAt = time.Now().Add(s.Lifetime).Unix()
	raw, err := json.Marshal(id)
	if err != nil {
		return
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    payload + "." + s.sign(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(id.ExpiresAt, 0),
	})
}

// Clear deletes the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// Parse validates the cookie and returns the identity. Tampered, malformed or
// expired cookies all parse as absent.
func (s *Sessions) Parse(r *http.Request) (Identity, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return Identity{}, false
	}
	payload, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(s.sign(payload))) {
		return Identity{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Identity{}, false
	}
	if id.UserID == 0 || time.Now().Unix() >= id.ExpiresAt {
		return Identity{}, false
	}
	return id, true
}

// Middleware attaches the identity to the request context when the cookie
// verifies. It does not reject anything; gating happens in the policy layer.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := s.Parse(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext extracts the identity set by Middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(Identity)
	return id, ok
}
