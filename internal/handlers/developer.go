package handlers

import (
	"net/http"

	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/httpx"
	"github.com/lexhelp/platform/internal/services"
)

// DeveloperHandler serves the developer panel: assistant creation and the
// simulated test runner.
type DeveloperHandler struct {
	Tests      *services.TestService
	Assistants *services.AssistantService
	Messages   *services.MessageService
}

func NewDeveloperHandler(tests *services.TestService, assistants *services.AssistantService, messages *services.MessageService) *DeveloperHandler {
	return &DeveloperHandler{Tests: tests, Assistants: assistants, Messages: messages}
}

// Panel returns tests, assistants and classifier statistics.
func (h *DeveloperHandler) Panel(w http.ResponseWriter, r *http.Request) {
	tests, err := h.Tests.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	assistants, err := h.Assistants.All(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	testStats, err := h.Tests.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	nlpStats, err := h.Messages.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	testDicts := make([]map[string]any, 0, len(tests))
	for i := range tests {
		testDicts = append(testDicts, tests[i].ToDict())
	}
	assistantDicts := make([]map[string]any, 0, len(assistants))
	for i := range assistants {
		assistantDicts = append(assistantDicts, assistants[i].ToDict())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"tests":      testDicts,
		"assistants": assistantDicts,
		"stats":      testStats,
		"nlp_stats":  nlpStats,
	})
}

type createTestRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TestType       string `json:"test_type"`
	Code           string `json:"code"`
	ExpectedOutput string `json:"expected_output"`
}

// CreateTest records a new test definition.
func (h *DeveloperHandler) CreateTest(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createTestRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	testID, err := h.Tests.Create(r.Context(), req.Name, req.Description, req.TestType, req.Code, req.ExpectedOutput, id.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": testID})
}

// RunTest executes a test through the simulated runner.
func (h *DeveloperHandler) RunTest(w http.ResponseWriter, r *http.Request) {
	testID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid test id", nil)
		return
	}
	result, err := h.Tests.Run(r.Context(), testID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "test": result.ToDict()})
}

type createAssistantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Specialty   string `json:"specialty"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// CreateAssistant adds a new assistant persona.
func (h *DeveloperHandler) CreateAssistant(w http.ResponseWriter, r *http.Request) {
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
