package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/voicepal-ai/voicepal/internal/adapters/http"
	"github.com/voicepal-ai/voicepal/internal/adapters/http/handlers"
	"github.com/voicepal-ai/voicepal/internal/adapters/id"
	"github.com/voicepal-ai/voicepal/internal/adapters/speech"
	"github.com/voicepal-ai/voicepal/internal/adapters/tracing"
	"github.com/voicepal-ai/voicepal/internal/application/session"
	"github.com/voicepal-ai/voicepal/internal/ports"
)

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the Voicepal HTTP API server.

The server provides REST endpoints for exploration sessions and a
WebSocket stream per session for generation results.

Required configuration:
  - Generation API key (VOICEPAL_GENERATION_API_KEY)

Optional:
  - Whisper-compatible ASR endpoint (VOICEPAL_ASR_URL)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// runServer initializes and starts the HTTP API server
func runServer(ctx context.Context) error {
	log.Println("Starting Voicepal API server...")
	log.Printf("  HTTP:       http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("  Generation: %s (%s)", cfg.Generation.BaseURL, cfg.Generation.Model)
	if cfg.IsASRConfigured() {
		log.Printf("  ASR:        %s", cfg.ASR.URL)
	}

	log.Println("Initializing OpenTelemetry tracing...")
	shutdown, err := tracing.InitTracer("voicepal-api")
	if err != nil {
		log.Printf("Warning: Failed to initialize tracing: %v", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
		log.Println("OpenTelemetry tracing initialized")
	}

	if !cfg.IsGenerationConfigured() {
		log.Println("Warning: no generation API key set; sessions will refuse generation requests")
	}

	idGen := id.New()
	registry := session.NewRegistry(llmService, idGen)

	var ingester ports.TranscriptIngester
	if cfg.IsASRConfigured() {
		ingester = speech.NewASRAdapter(cfg.ASR.URL, cfg.ASR.APIKey, cfg.ASR.Model)
		log.Println("ASR adapter initialized")
	}

	broadcaster := handlers.NewWebSocketBroadcaster()
	server := httpadapter.NewServer(cfg, registry, llmService, ingester, broadcaster)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("Received signal %s, shutting down...", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}
