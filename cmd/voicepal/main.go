package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicepal-ai/voicepal/internal/config"
	"github.com/voicepal-ai/voicepal/internal/llm"
)

// Version information (set via ldflags)
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Shared global variables
var (
	cfg        *config.Config
	llmService *llm.Service
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "voicepal",
		Short: "Voicepal - guided thought exploration",
		Long: `Voicepal turns rough spoken or typed thoughts into refined ideas.
Each thought is cleaned up and challenged with follow-up questions;
you can also debate your stance or turn the session into a blog draft.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			client := llm.NewClient(
				cfg.Generation.BaseURL,
				cfg.Generation.APIKey,
				cfg.Generation.Model,
			)
			llmService = llm.NewService(client, time.Duration(cfg.Generation.TimeoutSeconds)*time.Second)

			return nil
		},
	}

	rootCmd.AddCommand(
		exploreCmd(),
		serveCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("Generation:")
			fmt.Printf("  Base URL: %s\n", cfg.Generation.BaseURL)
			fmt.Printf("  Model:    %s\n", cfg.Generation.Model)
			fmt.Printf("  Timeout:  %ds\n", cfg.Generation.TimeoutSeconds)
			fmt.Printf("  API Key:  %s\n", maskSecret(cfg.Generation.APIKey))
			fmt.Printf("  Status:   %s\n", boolStatus(cfg.IsGenerationConfigured()))
			fmt.Println()

			fmt.Println("ASR (Speech Recognition):")
			fmt.Printf("  URL:     %s\n", cfg.ASR.URL)
			fmt.Printf("  Model:   %s\n", cfg.ASR.Model)
			fmt.Printf("  API Key: %s\n", maskSecret(cfg.ASR.APIKey))
			fmt.Printf("  Status:  %s\n", boolStatus(cfg.IsASRConfigured()))
			fmt.Println()

			fmt.Println("Server:")
			fmt.Printf("  Host: %s\n", cfg.Server.Host)
			fmt.Printf("  Port: %d\n", cfg.Server.Port)
			fmt.Println()

			fmt.Println("Environment variables:")
			fmt.Println("  VOICEPAL_GENERATION_URL, VOICEPAL_GENERATION_API_KEY, VOICEPAL_GENERATION_MODEL")
			fmt.Println("  VOICEPAL_ASR_URL, VOICEPAL_ASR_API_KEY, VOICEPAL_ASR_MODEL")
			fmt.Println("  VOICEPAL_SERVER_HOST, VOICEPAL_SERVER_PORT, VOICEPAL_CORS_ORIGINS")

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Voicepal %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}

// maskSecret masks a secret string for display
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "(set)"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// boolStatus returns a status string for a boolean
func boolStatus(b bool) string {
	if b {
		return "configured"
	}
	return "not configured"
}
