package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/voicepal-ai/voicepal/internal/config"
	"github.com/voicepal-ai/voicepal/internal/ports"
)

type HealthHandler struct {
	cfg *config.Config
	llm ports.GenerativeService
}

func NewHealthHandler(cfg *config.Config, llm ports.GenerativeService) *HealthHandler {
	return &HealthHandler{cfg: cfg, llm: llm}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Services map[string]string `json:"services,omitempty"`
}

// Handle reports liveness plus whether each configured backend is usable.
// An unconfigured generation provider makes the service degraded, not dead:
// sessions can exist, but nothing can be refined.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "ok",
		Version:  "1.0.0",
		Services: make(map[string]string),
	}

	if h.llm != nil {
		if err := h.llm.Ready(); err != nil {
			response.Status = "degraded"
			response.Services["generation"] = "not_configured"
		} else {
			response.Services["generation"] = "ready"
		}
	}

	if h.cfg != nil {
		if h.cfg.IsASRConfigured() {
			response.Services["transcription"] = "configured"
		} else {
			response.Services["transcription"] = "not_configured"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
