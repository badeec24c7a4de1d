package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/config"
	"github.com/lexhelp/platform/internal/handlers"
	"github.com/lexhelp/platform/internal/models"
	"github.com/lexhelp/platform/internal/nlp"
	"github.com/lexhelp/platform/internal/policy"
	"github.com/lexhelp/platform/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	sessions *auth.Sessions
	policy   *policy.Policy

	authHandler      *handlers.AuthHandler
	chatHandler      *handlers.ChatHandler
	expertHandler    *handlers.ExpertHandler
	developerHandler *handlers.DeveloperHandler
	adminHandler     *handlers.AdminHandler
	apiHandler       *handlers.APIHandler
}

// NewApp wires services, policy and handlers onto the router.
func NewApp(db *gorm.DB, cfg *config.Config, sessions *auth.Sessions, rec *audit.Recorder) *App {
	classifier := nlp.NewKeywordClassifier(cfg.NLP.ConfidenceThreshold)

	authSvc := services.NewAuthService(db, rec)
	assistantSvc := services.NewAssistantService(db, rec)
	messageSvc := services.NewMessageService(db, rec, classifier)
	knowledgeSvc := services.NewKnowledgeService(db, rec)
	testSvc := services.NewTestService(db, rec)

	app := &App{
		mux:      http.NewServeMux(),
		sessions: sessions,
		policy:   policy.New(sessions, authSvc.Exists),

		authHandler:      handlers.NewAuthHandler(authSvc, sessions),
		chatHandler:      handlers.NewChatHandler(messageSvc, assistantSvc),
		expertHandler:    handlers.NewExpertHandler(messageSvc, knowledgeSvc),
		developerHandler: handlers.NewDeveloperHandler(testSvc, assistantSvc, messageSvc),
		adminHandler:     handlers.NewAdminHandler(authSvc, assistantSvc, rec),
		apiHandler:       handlers.NewAPIHandler(db, knowledgeSvc, classifier),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler. Every request passes through the
// request-meta and session middleware before routing.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := withRequestMeta(a.sessions.Middleware(a.mux))
	handler.ServeHTTP(w, r)
}

// withRequestMeta records the caller address and user agent in the context
// for the audit trail.
func withRequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.WithRequestMeta(r.Context(), audit.RequestMeta{
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	requireAuth := a.policy.RequireAuth
	requireAdmin := a.policy.RequireRole(models.RoleAdmin)
	requireDeveloper := a.policy.RequireRole(models.RoleDeveloper)
	requireExpert := a.policy.RequireRole(models.RoleExpert)

	// Public routes
	a.mux.HandleFunc("GET /", a.apiHandler.Index)
	a.mux.HandleFunc("POST /register", a.authHandler.Register)
	a.mux.HandleFunc("POST /login", a.authHandler.Login)
	a.mux.HandleFunc("POST /logout", a.authHandler.Logout)

	// Authenticated routes (any role)
	a.mux.Handle("GET /dashboard", requireAuth(http.HandlerFunc(a.authHandler.Dashboard)))
	a.mux.Handle("GET /chat", requireAuth(http.HandlerFunc(a.chatHandler.Page)))
	a.mux.Handle("GET /history", requireAuth(http.HandlerFunc(a.chatHandler.History)))
	a.mux.Handle("POST /api/chat/send", requireAuth(http.HandlerFunc(a.chatHandler.Send)))
	a.mux.Handle("POST /api/knowledge/search", requireAuth(http.HandlerFunc(a.apiHandler.SearchKnowledge)))
	a.mux.Handle("POST /api/nlp/analyze", requireAuth(http.HandlerFunc(a.apiHandler.Analyze)))

	// Expert routes
	a.mux.Handle("GET /expert", requireExpert(http.HandlerFunc(a.expertHandler.Panel)))
	a.mux.Handle("POST /expert/message/{id}/verify", requireExpert(http.HandlerFunc(a.expertHandler.Verify)))
	a.mux.Handle("POST /expert/knowledge", requireExpert(http.HandlerFunc(a.expertHandler.AddKnowledge)))

	// Developer routes
	a.mux.Handle("GET /developer", requireDeveloper(http.HandlerFunc(a.developerHandler.Panel)))
	a.mux.Handle("POST /developer/tests", requireDeveloper(http.HandlerFunc(a.developerHandler.CreateTest)))
	a.mux.Handle("POST /developer/tests/{id}/run", requireDeveloper(http.HandlerFunc(a.developerHandler.RunTest)))
	a.mux.Handle("POST /developer/assistants", requireDeveloper(http.HandlerFunc(a.developerHandler.CreateAssistant)))

	// Admin routes
	a.mux.Handle("GET /admin", requireAdmin(http.HandlerFunc(a.adminHandler.Panel)))
	a.mux.Handle("GET /admin/logs", requireAdmin(http.HandlerFunc(a.adminHandler.Logs)))
	a.mux.Handle("POST /admin/users/{id}/toggle", requireAdmin(http.HandlerFunc(a.adminHandler.ToggleUser)))
	a.mux.Handle("POST /admin/users/{id}/role", requireAdmin(http.HandlerFunc(a.adminHandler.ChangeRole)))
	a.mux.Handle("POST /admin/users/{id}/delete", requireAdmin(http.HandlerFunc(a.adminHandler.DeleteUser)))
	a.mux.Handle("POST /admin/assistants", requireAdmin(http.HandlerFunc(a.adminHandler.CreateAssistant)))
}
