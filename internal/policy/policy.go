// Package policy gates routes by authentication and role. Role checks are an
// exact string match against a single required role; there is no hierarchy.
package policy

import (
	"context"
	"net/http"
	"strings"

	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/httpx"
)

// UserVerifier reports whether the session's user still exists and is active.
// Checked on every gated request so deactivation takes effect immediately.
type UserVerifier func(ctx context.Context, uid uint) bool

// Policy wires session parsing to route gating.
type Policy struct {
	Sessions *auth.Sessions
	Verifier UserVerifier
}

func New(sessions *auth.Sessions, verifier UserVerifier) *Policy {
	return &Policy{Sessions: sessions, Verifier: verifier}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func (p *Policy) unauthorized(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireAuth rejects requests without a valid session. A session whose user
// has since been deleted or deactivated is cleared and treated the same as no
// session at all.
func (p *Policy) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok || id.UserID == 0 {
			p.unauthorized(w, r)
			return
		}
		if p.Verifier != nil && !p.Verifier(r.Context(), id.UserID) {
			p.Sessions.Clear(w)
			p.unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a handler on an exact role match. Missing session is
// Unauthorized; an authenticated session with any other role is Forbidden.
// The two outcomes stay distinct.
func (p *Policy) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return p.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := auth.IdentityFromContext(r.Context())
			if id.Role != role {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
