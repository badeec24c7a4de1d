package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/httpx"
	"github.com/lexhelp/platform/internal/models"
	"github.com/lexhelp/platform/internal/nlp"
	"github.com/lexhelp/platform/internal/services"
)

// APIHandler serves the JSON integration endpoints and the public landing
// stats.
type APIHandler struct {
	DB         *gorm.DB
	Knowledge  *services.KnowledgeService
	Classifier nlp.Classifier
}

func NewAPIHandler(db *gorm.DB, knowledge *services.KnowledgeService, classifier nlp.Classifier) *APIHandler {
	return &APIHandler{DB: db, Knowledge: knowledge, Classifier: classifier}
}

// Index returns public platform statistics.
func (h *APIHandler) Index(w http.ResponseWriter, r *http.Request) {
	var users, assistants int64
	if err := h.DB.WithContext(r.Context()).Model(&models.User{}).Count(&users).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.DB.WithContext(r.Context()).Model(&models.Assistant{}).Count(&assistants).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"stats": map[string]int64{"users": users, "assistants": assistants},
	})
}

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

// SearchKnowledge returns verified knowledge base entries matching the query.
func (h *APIHandler) SearchKnowledge(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	entries, err := h.Knowledge.Search(r.Context(), req.Query, req.Category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	results := make([]map[string]any, 0, len(entries))
	for i := range entries {
		results = append(results, entries[i].ToDict())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "results": results})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze runs text through the classifier without persisting anything.
func (h *APIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "text is required", nil)
		return
	}

	result := h.Classifier.Classify(req.Text)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"response":   result.Response,
		"intent":     result.Intent,
		"category":   result.Category,
		"confidence": result.Confidence,
		"icon":       result.Icon,
		"timestamp":  result.Timestamp,
	})
}
