package handlers

import (
	"net/http"
	"strings"

	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/httpx"
	"github.com/lexhelp/platform/internal/services"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	Auth     *services.AuthService
	Sessions *auth.Sessions
}

func NewAuthHandler(authSvc *services.AuthService, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{Auth: authSvc, Sessions: sessions}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account. New accounts default to the client role.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	userID, err := h.Auth.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "user_id": userID})
}

// Login authenticates and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "username and password required", nil)
		return
	}

	identity, err := h.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.Sessions.Create(w, identity)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user_id":      identity.UserID,
		"username":     identity.Username,
		"role":         identity.Role,
		"avatar_color": identity.AvatarColor,
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Dashboard tells the client which panel its role lands on.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	target := "/chat"
	switch id.Role {
	case "admin":
		target = "/admin"
	case "developer":
		target = "/developer"
	case "expert":
		target = "/expert"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"username":     id.Username,
		"role":         id.Role,
		"avatar_color": id.AvatarColor,
		"panel":        target,
	})
}
