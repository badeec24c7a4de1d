package handlers

import (
	"net/http"

	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/httpx"
	"github.com/lexhelp/platform/internal/services"
)

// ExpertHandler serves the verification panel. Every route behind it is
// gated on the expert role.
type ExpertHandler struct {
	Messages  *services.MessageService
	Knowledge *services.KnowledgeService
}

func NewExpertHandler(messages *services.MessageService, knowledge *services.KnowledgeService) *ExpertHandler {
	return &ExpertHandler{Messages: messages, Knowledge: knowledge}
}

// Panel returns the messages awaiting a verdict and the knowledge base.
func (h *ExpertHandler) Panel(w http.ResponseWriter, r *http.Request) {
	unverified, err := h.Messages.Unverified(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	entries, err := h.Knowledge.All(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entryDicts := make([]map[string]any, 0, len(entries))
	for i := range entries {
		entryDicts = append(entryDicts, entries[i].ToDict())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"unverified_messages": messageDicts(unverified),
		"knowledge_items":     entryDicts,
		"stats": map[string]any{
			"unverified_count": len(unverified),
			"knowledge_count":  len(entries),
		},
	})
}

type verifyRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// Verify applies an approve or reject verdict to a message.
func (h *ExpertHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	messageID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid message id", nil)
		return
	}

	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	if err := h.Messages.Verify(r.Context(), messageID, id.UserID, req.Action, req.Notes); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "action": req.Action})
}

type knowledgeRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Source   string `json:"source"`
	Icon     string `json:"icon"`
}

// AddKnowledge inserts a pre-verified knowledge base entry.
func (h *ExpertHandler) AddKnowledge(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req knowledgeRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	entryID, err := h.Knowledge.Add(r.Context(), req.Title, req.Content, req.Category, req.Source, req.Icon, id.UserID, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": entryID})
}
