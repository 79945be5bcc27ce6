package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/toolchat/toolchat/internal/agent"
	"github.com/toolchat/toolchat/internal/handler"
	"github.com/toolchat/toolchat/internal/middleware"
	"github.com/toolchat/toolchat/internal/security"
	"github.com/toolchat/toolchat/internal/service"
	"github.com/toolchat/toolchat/internal/session"
	"github.com/toolchat/toolchat/internal/tools"
)

// setupRoutes returns (router, notes, error) so the store can be closed on
// shutdown.
func (s *Server) setupRoutes() (http.Handler, service.NotesStore, error) {
	cfg := s.cfg

	// ─── Notes store ────────────────────────────────────────────────────────────
	var notes service.NotesStore
	switch cfg.NotesBackend {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pg, err := service.NewPostgresNotes(ctx, cfg.NotesDSN)
		if err != nil {
			return nil, nil, err
		}
		notes = pg
	default:
		notes = service.NewMemoryNotes()
	}

	// ─── Tool registry ──────────────────────────────────────────────────────────
	registry := tools.NewRegistry()
	if err := registry.RegisterAll(
		tools.CalculatorTool(),
		tools.CreateNoteTool(notes),
		tools.GetNoteTool(notes),
		tools.ListNotesTool(notes),
		tools.DeleteNoteTool(notes),
		tools.CurrentTimeTool(),
		tools.ListTimezonesTool(),
		tools.SystemInfoTool(),
	); err != nil {
		return nil, nil, err
	}
	executor := tools.NewExecutor(registry, cfg.ToolTimeout)

	// ─── Orchestration loop ─────────────────────────────────────────────────────
	var loop *agent.Loop
	if cfg.AnthropicAPIKey != "" {
		model := agent.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model, cfg.AnthropicBaseURL)
		loop = agent.NewLoop(model, registry, executor, cfg.SystemPrompt, cfg.MaxToolRounds)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - chat endpoint disabled")
	}

	sessions := session.NewManager(
		time.Duration(cfg.SessionTTLMinutes)*time.Minute, cfg.MaxSessions)

	// ─── Security ───────────────────────────────────────────────────────────────
	promptVal := security.NewPromptValidator(cfg.MaxPromptLength)
	piiDetector := security.NewPIIDetector(nil)
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)

	log.Info().
		Str("notes_backend", cfg.NotesBackend).
		Int("tools", registry.Len()).
		Int("max_tool_rounds", cfg.MaxToolRounds).
		Bool("model_enabled", loop != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	// ─── Handlers ───────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(notes, loop != nil, registry.Len())
	chatH := handler.NewChatHandler(loop, sessions, promptVal, piiDetector, auditLogger)
	toolsH := handler.NewToolsHandler(registry)
	notesH := handler.NewNotesHandler(notes)

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/chat", chatH.Chat)
			r.Get("/tools", toolsH.ListTools)
			r.Get("/notes", notesH.ListNotes)
			r.Delete("/notes/{note_id}", notesH.DeleteNote)
		})
	})

	return r, notes, nil
}
