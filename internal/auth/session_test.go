package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newRequestWithCookies(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	w := httptest.NewRecorder()
	s.Create(w, Identity{UserID: 42, Username: "alice", Role: "client", AvatarColor: "#6c757d"})

	id, ok := s.Parse(newRequestWithCookies(t, w))
	if !ok {
		t.Fatal("expected session to parse")
	}
	if id.UserID != 42 || id.Username != "alice" || id.Role != "client" || id.AvatarColor != "#6c757d" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestSessionTamperedSignature(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	w := httptest.NewRecorder()
	s.Create(w, Identity{UserID: 42, Username: "alice", Role: "client"})

	cookie := w.Result().Cookies()[0]
	parts := strings.Split(cookie.Value, ".")
	if len(parts) != 2 {
		t.Fatalf("unexpected cookie format: %s", cookie.Value)
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: cookie.Name, Value: parts[0] + ".forgedsignature"})

	if _, ok := s.Parse(r); ok {
		t.Fatal("tampered cookie must not parse")
	}
}

func TestSessionWrongSecret(t *testing.T) {
	issuer := NewSessions("secret-a", time.Hour)
	w := httptest.NewRecorder()
	issuer.Create(w, Identity{UserID: 1, Username: "a", Role: "client"})

	verifier := NewSessions("secret-b", time.Hour)
	if _, ok := verifier.Parse(newRequestWithCookies(t, w)); ok {
		t.Fatal("cookie signed with another secret must not parse")
	}
}

func TestSessionExpiry(t *testing.T) {
	s := NewSessions("test-secret", -time.Minute)
	w := httptest.NewRecorder()
	s.Create(w, Identity{UserID: 7, Username: "bob", Role: "expert"})

	if _, ok := s.Parse(newRequestWithCookies(t, w)); ok {
		t.Fatal("expired session must not parse")
	}
}

func TestSessionAbsentCookie(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := s.Parse(r); ok {
		t.Fatal("missing cookie must not parse")
	}
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	w := httptest.NewRecorder()
	s.Create(w, Identity{UserID: 9, Username: "carol", Role: "admin"})

	var got Identity
	var ok bool
	h := s.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), newRequestWithCookies(t, w))

	if !ok || got.UserID != 9 || got.Role != "admin" {
		t.Fatalf("expected identity in context, got ok=%v id=%+v", ok, got)
	}
}
