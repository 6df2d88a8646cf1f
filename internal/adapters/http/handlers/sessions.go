package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicepal-ai/voicepal/internal/adapters/http/dto"
	"github.com/voicepal-ai/voicepal/internal/application/session"
	"github.com/voicepal-ai/voicepal/internal/ports"
)

// maxAudioBytes caps uploaded recordings at 25MB.
const maxAudioBytes = 25 << 20

// SessionsHandler exposes the exploration engine over HTTP. Mutating
// operations that involve a generation call return 202 Accepted; the outcome
// arrives on the session's WebSocket stream.
type SessionsHandler struct {
	registry    *session.Registry
	broadcaster *WebSocketBroadcaster
	ingester    ports.TranscriptIngester

	// baseCtx outlives individual requests so dispatched generation calls
	// are not cancelled when the accepting request returns.
	baseCtx context.Context
}

func NewSessionsHandler(registry *session.Registry, broadcaster *WebSocketBroadcaster, ingester ports.TranscriptIngester) *SessionsHandler {
	return &SessionsHandler{
		registry:    registry,
		broadcaster: broadcaster,
		ingester:    ingester,
		baseCtx:     context.Background(),
	}
}

// Create starts a new session and begins pumping its events to subscribers.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	engine := h.registry.Create()
	snap := engine.Snapshot()

	go h.pumpEvents(snap.ID, engine)

	respondJSON(w, dto.NewSessionResponse(snap, false), http.StatusCreated)
}

// pumpEvents forwards engine events to WebSocket subscribers for the life of
// the session. The events channel is never closed, so the pump exits with the
// process; one goroutine per session is the steady state.
func (h *SessionsHandler) pumpEvents(sessionID string, engine *session.Engine) {
	for ev := range engine.Events() {
		h.broadcaster.BroadcastEvent(sessionID, ev)
	}
}

func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, dto.NewSessionResponse(engine.Snapshot(), engine.Busy()), http.StatusOK)
}

func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.registry.Get(id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.registry.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// SubmitThought accepts typed text for refinement.
func (h *SessionsHandler) SubmitThought(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	req, ok := decodeJSON[dto.ThoughtRequest](r, w)
	if !ok {
		return
	}

	if err := engine.SubmitThought(h.baseCtx, req.Text); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, dto.Accepted(), http.StatusAccepted)
}

// Transcribe accepts an audio upload, transcribes it, and returns the
// classified transcript synchronously. The client reviews the text before
// submitting it as a thought.
func (h *SessionsHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.lookup(w, r); !ok {
		return
	}
	if h.ingester == nil {
		respondError(w, "not_configured", "Transcription is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		respondError(w, "invalid_request", "Invalid multipart body", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, "invalid_request", "Missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		respondError(w, "invalid_request", "Failed to read audio", http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" && header != nil {
		format = formatFromFilename(header.Filename)
	}

	result := <-h.ingester.Ingest(r.Context(), audio, format)
	status := http.StatusOK
	if result.Status != ports.TranscriptSuccess {
		status = http.StatusBadGateway
		if result.Status == ports.TranscriptUnknown {
			status = http.StatusUnprocessableEntity
		}
	}
	respondJSON(w, dto.TranscriptResponse{
		Status: string(result.Status),
		Text:   result.Text,
		Detail: result.Detail,
	}, status)
}

func formatFromFilename(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return ""
}

// SelectFocus records which challenge question the user wants to pursue.
func (h *SessionsHandler) SelectFocus(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	req, ok := decodeJSON[dto.FocusRequest](r, w)
	if !ok {
		return
	}

	if err := engine.SelectFocus(req.Question); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, dto.NewSessionResponse(engine.Snapshot(), engine.Busy()), http.StatusOK)
}

// ConfirmFocus promotes the pending thought into the history.
func (h *SessionsHandler) ConfirmFocus(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	step, err := engine.ConfirmFocus()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, dto.StepResponse{Step: step}, http.StatusOK)
}

// StartDebate switches to debate mode and dispatches the opening reply.
func (h *SessionsHandler) StartDebate(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := engine.StartDebate(h.baseCtx); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, dto.Accepted(), http.StatusAccepted)
}

// SubmitRebuttal adds the user's next debate argument.
func (h *SessionsHandler) SubmitRebuttal(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	req, ok := decodeJSON[dto.RebuttalRequest](r, w)
	if !ok {
		return
	}

	if err := engine.SubmitRebuttal(h.baseCtx, req.Text); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, dto.Accepted(), http.StatusAccepted)
}

// EndDebate returns to guided mode with a fresh session.
func (h *SessionsHandler) EndDebate(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := engine.EndDebate(); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, dto.NewSessionResponse(engine.Snapshot(), false), http.StatusOK)
}

// RequestSummary dispatches blog-summary generation over the transcript.
func (h *SessionsHandler) RequestSummary(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := engine.RequestSummary(h.baseCtx); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, dto.Accepted(), http.StatusAccepted)
}

func (h *SessionsHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Engine, bool) {
	return lookupEngine(h.registry, w, r)
}

func lookupEngine(registry *session.Registry, w http.ResponseWriter, r *http.Request) (*session.Engine, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "invalid_request", "Session ID is required", http.StatusBadRequest)
		return nil, false
	}
	engine, err := registry.Get(id)
	if err != nil {
		respondDomainError(w, err)
		return nil, false
	}
	return engine, true
}
