package session

import (
	"sync"

	"github.com/voicepal-ai/voicepal/internal/adapters/metrics"
	"github.com/voicepal-ai/voicepal/internal/domain"
	"github.com/voicepal-ai/voicepal/internal/domain/models"
	"github.com/voicepal-ai/voicepal/internal/ports"
)

// Registry holds the live engines, one per session, keyed by session ID.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*Engine
	llm     ports.GenerativeService
	idGen   ports.IDGenerator
}

func NewRegistry(llm ports.GenerativeService, idGen ports.IDGenerator) *Registry {
	return &Registry{
		engines: make(map[string]*Engine),
		llm:     llm,
		idGen:   idGen,
	}
}

// Create starts a fresh session and returns its engine.
func (r *Registry) Create() *Engine {
	id := r.idGen.GenerateSessionID()
	engine := NewEngine(models.NewSession(id), r.llm)

	r.mu.Lock()
	r.engines[id] = engine
	r.mu.Unlock()

	metrics.SessionsActive.Inc()
	return engine
}

// Get returns the engine for id.
func (r *Registry) Get(id string) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return engine, nil
}

// Remove discards the engine for id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[id]; ok {
		delete(r.engines, id)
		metrics.SessionsActive.Dec()
	}
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}
