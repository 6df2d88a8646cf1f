package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voicepal-ai/voicepal/internal/adapters/http/handlers"
	"github.com/voicepal-ai/voicepal/internal/adapters/http/middleware"
	"github.com/voicepal-ai/voicepal/internal/application/session"
	"github.com/voicepal-ai/voicepal/internal/config"
	"github.com/voicepal-ai/voicepal/internal/ports"
)

type Server struct {
	config      *config.Config
	router      *chi.Mux
	httpServer  *http.Server
	registry    *session.Registry
	llm         ports.GenerativeService
	ingester    ports.TranscriptIngester
	broadcaster *handlers.WebSocketBroadcaster
}

func NewServer(
	cfg *config.Config,
	registry *session.Registry,
	llm ports.GenerativeService,
	ingester ports.TranscriptIngester,
	broadcaster *handlers.WebSocketBroadcaster,
) *Server {
	s := &Server{
		config:      cfg,
		registry:    registry,
		llm:         llm,
		ingester:    ingester,
		broadcaster: broadcaster,
	}

	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	healthHandler := handlers.NewHealthHandler(s.config, s.llm)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		sessionsHandler := handlers.NewSessionsHandler(s.registry, s.broadcaster, s.ingester)
		r.Post("/sessions", sessionsHandler.Create)
		r.Get("/sessions/{id}", sessionsHandler.Get)
		r.Delete("/sessions/{id}", sessionsHandler.Delete)

		r.Post("/sessions/{id}/thoughts", sessionsHandler.SubmitThought)
		r.Post("/sessions/{id}/transcriptions", sessionsHandler.Transcribe)
		r.Post("/sessions/{id}/focus", sessionsHandler.SelectFocus)
		r.Post("/sessions/{id}/focus/confirm", sessionsHandler.ConfirmFocus)

		r.Post("/sessions/{id}/debate", sessionsHandler.StartDebate)
		r.Post("/sessions/{id}/debate/turns", sessionsHandler.SubmitRebuttal)
		r.Delete("/sessions/{id}/debate", sessionsHandler.EndDebate)

		r.Post("/sessions/{id}/summary", sessionsHandler.RequestSummary)

		wsHandler := handlers.NewWebSocketEventsHandler(s.registry, s.broadcaster, s.config.Server.CORSOrigins)
		r.Get("/sessions/{id}/ws", wsHandler.Handle)
	})

	s.router = r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for WebSocket streaming
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting HTTP server on %s", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
