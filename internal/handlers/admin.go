package handlers

import (
	"net/http"
	"strconv"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/httpx"
	"github.com/lexhelp/platform/internal/services"
)

// AdminHandler serves user management and the audit log view.
type AdminHandler struct {
	Auth       *services.AuthService
	Assistants *services.AssistantService
	Audit      *audit.Recorder
}

func NewAdminHandler(authSvc *services.AuthService, assistants *services.AssistantService, rec *audit.Recorder) *AdminHandler {
	return &AdminHandler{Auth: authSvc, Assistants: assistants, Audit: rec}
}

// Panel returns all users with activity counters plus the assistant list.
func (h *AdminHandler) Panel(w http.ResponseWriter, r *http.Request) {
	users, err := h.Auth.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	assistants, err := h.Assistants.All(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	userDicts := make([]map[string]any, 0, len(users))
	var active int
	for i := range users {
		d := users[i].ToDict()
		d["messages_count"] = users[i].MessagesCount
		d["assistants_count"] = users[i].AssistantsCount
		userDicts = append(userDicts, d)
		if users[i].IsActive {
			active++
		}
	}
	assistantDicts := make([]map[string]any, 0, len(assistants))
	for i := range assistants {
		assistantDicts = append(assistantDicts, assistants[i].ToDict())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":      userDicts,
		"assistants": assistantDicts,
		"stats": map[string]any{
			"total_users":  len(users),
			"active_users": active,
		},
	})
}

// ToggleUser flips a user's active flag.
func (h *AdminHandler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	user, err := h.Auth.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.Auth.SetActive(r.Context(), userID, !user.IsActive); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "is_active": !user.IsActive})
}

type roleRequest struct {
	Role string `json:"role"`
}

// ChangeRole assigns a new role to a user.
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	var req roleRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	if err := h.Auth.SetRole(r.Context(), userID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "role": req.Role})
}

// DeleteUser removes a user with its cascade. Admins cannot delete their own
// account.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	userID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if userID == id.UserID {
		httpx.JSONError(w, http.StatusBadRequest, "cannot delete your own account", nil)
		return
	}
	if err := h.Auth.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// CreateAssistant adds an assistant from the admin panel.
func (h *AdminHandler) CreateAssistant(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createAssistantRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	assistantID, err := h.Assistants.Create(r.Context(), req.Name, req.Description, req.Specialty, req.Icon, req.Color, id.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": assistantID})
}

// Logs returns the filtered audit trail, newest first, capped at 100 rows.
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{Level: r.URL.Query().Get("level")}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		if uid, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(uid)
		}
	}

	logs, err := h.Audit.Query(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	stats, err := h.Audit.QueryStats()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logDicts := make([]map[string]any, 0, len(logs))
	for i := range logs {
		logDicts = append(logDicts, logs[i].ToDict())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"logs": logDicts, "stats": stats})
}
