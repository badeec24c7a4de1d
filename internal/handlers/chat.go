package handlers

import (
	"net/http"

	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/httpx"
	"github.com/lexhelp/platform/internal/models"
	"github.com/lexhelp/platform/internal/services"
)

// chatPageLimit bounds the recent-message list on the chat page.
const chatPageLimit = 10

// ChatHandler serves the client chat surface.
type ChatHandler struct {
	Messages   *services.MessageService
	Assistants *services.AssistantService
}

func NewChatHandler(messages *services.MessageService, assistants *services.AssistantService) *ChatHandler {
	return &ChatHandler{Messages: messages, Assistants: assistants}
}

func messageDicts(msgs []models.ChatMessage) []map[string]any {
	out := make([]map[string]any, 0, len(msgs))
	for i := range msgs {
		out = append(out, msgs[i].ToDict())
	}
	return out
}

// Page returns the active assistants and the user's recent messages.
func (h *ChatHandler) Page(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	assistants, err := h.Assistants.Active(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	messages, err := h.Messages.History(r.Context(), id.UserID, chatPageLimit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	assistantDicts := make([]map[string]any, 0, len(assistants))
	for i := range assistants {
		assistantDicts = append(assistantDicts, assistants[i].ToDict())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"username":     id.Username,
		"role":         id.Role,
		"avatar_color": id.AvatarColor,
		"assistants":   assistantDicts,
		"messages":     messageDicts(messages),
	})
}

// History returns the user's full consultation history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	messages, err := h.Messages.History(r.Context(), id.UserID, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"messages": messageDicts(messages)})
}

type sendRequest struct {
	Message     string `json:"message"`
	AssistantID *uint  `json:"assistant_id"`
}

// Send submits a message, runs it through the classifier and returns the
// generated response.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req sendRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	msg, err := h.Messages.Send(r.Context(), id.UserID, req.AssistantID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": msg.ID,
		"response":   msg.Response,
		"intent":     msg.Intent,
		"category":   msg.Category,
		"confidence": msg.Confidence,
	})
}
